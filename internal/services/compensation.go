package services

import "log"

type compensation struct {
	name   string
	action func() error
}

// compensations records how to undo each completed step of a multi-step
// write. rollback runs them newest first.
type compensations struct {
	steps []compensation
}

func (c *compensations) add(name string, action func() error) {
	c.steps = append(c.steps, compensation{name: name, action: action})
}

func (c *compensations) rollback() {
	for i := len(c.steps) - 1; i >= 0; i-- {
		step := c.steps[i]
		if err := step.action(); err != nil {
			log.Printf("Compensation %q failed: %v", step.name, err)
		}
	}
	c.steps = nil
}
