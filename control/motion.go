package control

// Motion commands are queued by the robot and never acknowledged
// synchronously. Each call only refreshes the log with the motion timeout,
// so errors they cause surface in the next request command.
//
// Like every dispatch, a motion command first drains buffered bytes with a
// poll. On a socket a poll is a 500 µs wait, which adds that much latency
// before the command is sent.

// MoveJoints moves to the joint angles [A1..A6] in degrees.
func (c *Controller) MoveJoints(joints []float64) error {
	_, err := c.exec(cmdMoveJoints, joints)
	return err
}

// MoveJointsVel moves at the joint velocities [A1..A6] in deg/s.
func (c *Controller) MoveJointsVel(jointsVel []float64) error {
	_, err := c.exec(cmdMoveJointsVel, jointsVel)
	return err
}

// MoveLin moves linearly to position [x,y,z] (mm) and XYZ Euler orientation
// [alpha,beta,gamma] (deg).
func (c *Controller) MoveLin(position, orientation []float64) error {
	_, err := c.exec(cmdMoveLin, position, orientation)
	return err
}

// MoveLinRelTRF moves linearly relative to the tool reference frame.
func (c *Controller) MoveLinRelTRF(position, orientation []float64) error {
	_, err := c.exec(cmdMoveLinRelTRF, position, orientation)
	return err
}

// MoveLinRelWRF moves linearly relative to the world reference frame.
func (c *Controller) MoveLinRelWRF(position, orientation []float64) error {
	_, err := c.exec(cmdMoveLinRelWRF, position, orientation)
	return err
}

// MoveLinVelTRF moves at translational velocity pDot (mm/s) and angular
// velocity w (deg/s) in the tool reference frame.
func (c *Controller) MoveLinVelTRF(pDot, w []float64) error {
	_, err := c.exec(cmdMoveLinVelTRF, pDot, w)
	return err
}

// MoveLinVelWRF moves at translational velocity pDot (mm/s) and angular
// velocity w (deg/s) in the world reference frame.
func (c *Controller) MoveLinVelWRF(pDot, w []float64) error {
	_, err := c.exec(cmdMoveLinVelWRF, pDot, w)
	return err
}

// MovePose moves to position [x,y,z] (mm) and orientation [alpha,beta,gamma] (deg).
func (c *Controller) MovePose(position, orientation []float64) error {
	_, err := c.exec(cmdMovePose, position, orientation)
	return err
}

// SetAutoConf enables (1) or disables (0) the automatic posture configuration.
func (c *Controller) SetAutoConf(e int) error {
	_, err := c.exec(cmdSetAutoConf, []float64{float64(e)})
	return err
}

// SetBlending sets the blending percentage, in [0, 100].
func (c *Controller) SetBlending(p float64) error {
	_, err := c.exec(cmdSetBlending, []float64{p})
	return err
}

// SetCartAcc sets the cartesian acceleration percentage, in (1, 100].
func (c *Controller) SetCartAcc(p float64) error {
	_, err := c.exec(cmdSetCartAcc, []float64{p})
	return err
}

// SetCartAngVel sets the cartesian angular velocity limit in deg/s, in [0.001, 180].
func (c *Controller) SetCartAngVel(omega float64) error {
	_, err := c.exec(cmdSetCartAngVel, []float64{omega})
	return err
}

// SetCartLinVel sets the cartesian linear velocity limit in mm/s, in [0.001, 500].
func (c *Controller) SetCartLinVel(v float64) error {
	_, err := c.exec(cmdSetCartLinVel, []float64{v})
	return err
}

// SetConf sets the posture configuration; each parameter is -1 or 1.
func (c *Controller) SetConf(c1, c3, c5 int) error {
	_, err := c.exec(cmdSetConf, []float64{float64(c1)}, []float64{float64(c3)}, []float64{float64(c5)})
	return err
}

// SetJointAcc sets the joint acceleration percentage, in [1, 100].
func (c *Controller) SetJointAcc(p float64) error {
	_, err := c.exec(cmdSetJointAcc, []float64{p})
	return err
}

// SetJointVel sets the joint velocity percentage, in [0, 100].
func (c *Controller) SetJointVel(p float64) error {
	_, err := c.exec(cmdSetJointVel, []float64{p})
	return err
}

// SetTRF sets the tool reference frame relative to the flange.
func (c *Controller) SetTRF(origin, orientation []float64) error {
	_, err := c.exec(cmdSetTRF, origin, orientation)
	return err
}

// SetWRF sets the world reference frame relative to the base.
func (c *Controller) SetWRF(origin, orientation []float64) error {
	_, err := c.exec(cmdSetWRF, origin, orientation)
	return err
}

// SetVelTimeout sets the velocity command watchdog in seconds, in [0.001, 1].
func (c *Controller) SetVelTimeout(t float64) error {
	_, err := c.exec(cmdSetVelTimeout, []float64{t})
	return err
}
