package control

import (
	"fmt"

	"github.com/arloliu/go-meca/meca"
)

// Conf is the robot posture configuration reported by GetConf.
type Conf struct {
	C1 int
	C3 int
	C5 int
}

// ActivateRobot powers the motors. It returns the 2000 (activated) or 2001
// (already activated) event.
func (c *Controller) ActivateRobot() (meca.Event, error) {
	return c.exec(cmdActivateRobot)
}

// DeactivateRobot powers the motors off.
func (c *Controller) DeactivateRobot() (meca.Event, error) {
	return c.exec(cmdDeactivateRobot)
}

// Home runs the homing sequence. It returns the 2002 (homed) or 2003
// (already homed) event.
func (c *Controller) Home() (meca.Event, error) {
	return c.exec(cmdHome)
}

// ResetError clears the robot error state. Error events still in the log
// afterwards are dropped.
func (c *Controller) ResetError() (meca.Event, error) {
	ev, err := c.exec(cmdResetError)
	if err != nil {
		return ev, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.disp.Refresh(meca.Poll()); err != nil {
		return ev, err
	}
	c.disp.Log().RemoveFunc(meca.Event.IsError)

	return ev, nil
}

// ClearMotion stops the robot and empties its motion queue.
func (c *Controller) ClearMotion() (meca.Event, error) {
	return c.exec(cmdClearMotion)
}

// ResumeMotion resumes a paused motion queue.
func (c *Controller) ResumeMotion() (meca.Event, error) {
	return c.exec(cmdResumeMotion)
}

// GetConf returns the current posture configuration.
func (c *Controller) GetConf() (Conf, error) {
	ev, err := c.exec(cmdGetConf)
	if err != nil {
		return Conf{}, err
	}

	values, err := ev.Ints()
	if err != nil {
		return Conf{}, err
	}

	if len(values) < 3 {
		return Conf{}, fmt.Errorf("control: GetConf payload %q has %d fields, want 3", ev.Payload, len(values))
	}

	return Conf{C1: values[0], C3: values[1], C5: values[2]}, nil
}

// GetStatusRobot returns the robot status. It succeeds while the robot is
// in error.
func (c *Controller) GetStatusRobot() (meca.Status, error) {
	ev, err := c.exec(cmdGetStatusRobot)
	if err != nil {
		return meca.Status{}, err
	}

	return meca.ParseStatus(ev.Payload)
}

// SetEOB enables (1) or disables (0) the end-of-block message.
func (c *Controller) SetEOB(e int) (meca.Event, error) {
	d := cmdSetEOBDisabled
	if e == 1 {
		d = cmdSetEOBEnabled
	}

	return c.exec(d, []float64{float64(e)})
}

// SetEOM enables (1) or disables (0) the end-of-movement message.
func (c *Controller) SetEOM(e int) (meca.Event, error) {
	d := cmdSetEOMDisabled
	if e == 1 {
		d = cmdSetEOMEnabled
	}

	return c.exec(d, []float64{float64(e)})
}

// SetMonitoringInterval sets the real-time feedback period in seconds,
// in [0.001, 1].
func (c *Controller) SetMonitoringInterval(t float64) error {
	_, err := c.exec(cmdSetMonitoringInterval, []float64{t})
	return err
}
