package meca

// Default TCP ports of the robot.
const (
	ControlPort  = 10000
	FeedbackPort = 10001
)

// Response and error codes reported on the control socket.
const (
	CodeActivationError      = "1013"
	CodeStaleActivationState = "1005"
	CodeHomingError          = "1014"
	CodeStaleHomingState     = "1006"
	CodeResetError           = "1025"

	CodeActivated        = "2000"
	CodeAlreadyActivated = "2001"
	CodeHomed            = "2002"
	CodeAlreadyHomed     = "2003"
	CodeDeactivated      = "2004"
	CodeErrorReset       = "2005"
	CodeNoErrorToReset   = "2006"
	CodeStatusRobot      = "2007"
	CodeConf             = "2029"
	CodeMotionResumed    = "2043"
	CodeMotionCleared    = "2044"
	CodeEOMEnabled       = "2052"
	CodeEOMDisabled      = "2053"
	CodeEOBEnabled       = "2054"
	CodeEOBDisabled      = "2055"

	// CodeConnected is sent by the robot right after the control socket is accepted.
	CodeConnected = "3000"
	// CodeAlreadyConnected is sent when another client already owns the control socket.
	CodeAlreadyConnected = "3001"
)
