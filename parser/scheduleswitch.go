package parser

import (
	"github.com/aclements/perfscript"
	"github.com/aclements/perfscript/cursor"
)

// ScheduleSwitchReader reads the "prev_comm=... ==> next_comm=..."
// payload that follows a sched_switch event's name.
type ScheduleSwitchReader struct{}

// Read parses one scheduler payload starting at c's current position.
func (ScheduleSwitchReader) Read(c *cursor.ByteCursor) (perfscript.ScheduleSwitch, error) {
	var sw perfscript.ScheduleSwitch

	skipToValue(c) // prev_comm=
	sw.PreviousCommand = c.ReadASCIIUntil(' ')

	skipToValue(c) // prev_pid=
	pid, err := c.ReadIntDecimal()
	if err != nil {
		return sw, err
	}
	sw.PreviousTID = pid

	skipToValue(c) // prev_prio=
	prio, err := c.ReadIntDecimal()
	if err != nil {
		return sw, err
	}
	sw.PreviousPriority = prio

	skipToValue(c) // prev_state=
	sw.PreviousState = c.Current()
	c.Advance()

	c.SkipWhitespace()
	// Literal three-byte "==>" arrow.
	c.Advance()
	c.Advance()
	c.Advance()

	skipToValue(c) // next_comm=
	sw.NextCommand = c.ReadASCIIUntil(' ')

	skipToValue(c) // next_pid=
	npid, err := c.ReadIntDecimal()
	if err != nil {
		return sw, err
	}
	sw.NextTID = npid

	skipToValue(c) // next_prio=
	nprio, err := c.ReadIntDecimal()
	if err != nil {
		return sw, err
	}
	sw.NextPriority = nprio

	return sw, nil
}

// skipToValue advances c past the next '=', leaving it positioned on the
// first byte of the field's value.
func skipToValue(c *cursor.ByteCursor) {
	c.SkipWhitespace()
	c.SkipUntil('=')
	c.Advance()
}
