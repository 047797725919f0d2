package reply

import "fmt"

// WrongType builds the error reply emitted when a command targets a key
// held in a different namespace than the one it expects.
func WrongType() Reply {
	return Err("WRONGTYPE Operation against a key holding the wrong kind of value")
}

// UnknownCommand builds the error reply for an unrecognized opcode.
func UnknownCommand() Reply {
	return Err("ERR unknown command")
}

// WrongArgs builds the "wrong number of arguments" error used by the
// connection commands, carrying the opcode name the way real Redis does.
func WrongArgs(name string) Reply {
	return Err(fmt.Sprintf("ERR wrong number of arguments for '%s' command", name))
}

// Errf builds a generic ERR-prefixed error reply.
func Errf(format string, a ...interface{}) Reply {
	return Err("ERR " + fmt.Sprintf(format, a...))
}

// IndexOutOfRange builds the LSET out-of-bounds error.
func IndexOutOfRange() Reply {
	return Err("ERR index out of range")
}
