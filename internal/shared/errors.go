package shared

type Error string

// Implement the error interface
func (e Error) Error() string { return string(e) }

//------------
// Definitions
//------------

// cli errors
const (
	ErrorCreateFile = Error("could not create the file")
	ErrorEncodeFile = Error("could not encode to file")
)

// repository errors
const (
	ErrNotFound         = Error("record not found")
	ErrDuplicate        = Error("duplicate record")
	ErrInvalidReference = Error("invalid reference")
	ErrInvalidName      = Error("invalid name")
)
