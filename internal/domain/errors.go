package domain

import "errors"

// ErrorKind classifies a business rule violation so the transport layer
// can translate it without string matching.
type ErrorKind string

const (
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindAlreadyMember     ErrorKind = "ALREADY_MEMBER"
	KindCapacityExceeded  ErrorKind = "CAPACITY_EXCEEDED"
	KindDuplicateRequest  ErrorKind = "DUPLICATE_REQUEST"
	KindAlreadyProcessed  ErrorKind = "ALREADY_PROCESSED"
	KindConflict          ErrorKind = "CONFLICT"
	KindForbidden         ErrorKind = "FORBIDDEN"
	KindOwnerCannotLeave  ErrorKind = "OWNER_CANNOT_LEAVE"
	KindSelfRemoval       ErrorKind = "SELF_REMOVAL"
	KindNotAMember        ErrorKind = "NOT_A_MEMBER"
	KindGenerationFailure ErrorKind = "GENERATION_FAILURE"
	KindInvalidArgument   ErrorKind = "INVALID_ARGUMENT"
)

// Error is a business error carrying one taxonomy kind.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrGroupNotFound       = &Error{Kind: KindNotFound, Message: "group not found"}
	ErrRequestNotFound     = &Error{Kind: KindNotFound, Message: "join request not found"}
	ErrMembershipNotFound  = &Error{Kind: KindNotFound, Message: "user is not a member of this group"}
	ErrInviteCodeNotFound  = &Error{Kind: KindNotFound, Message: "invalid invite code"}
	ErrAlreadyMember       = &Error{Kind: KindAlreadyMember, Message: "user is already a member of another group"}
	ErrCapacityExceeded    = &Error{Kind: KindCapacityExceeded, Message: "group has reached maximum capacity"}
	ErrDuplicateRequest    = &Error{Kind: KindDuplicateRequest, Message: "join request already submitted"}
	ErrAlreadyProcessed    = &Error{Kind: KindAlreadyProcessed, Message: "join request has already been processed"}
	ErrRequesterConflict   = &Error{Kind: KindConflict, Message: "requester is already a member of another group"}
	ErrDuplicateInvitation = &Error{Kind: KindConflict, Message: "user has already been invited to this group"}
	ErrNotOwner            = &Error{Kind: KindForbidden, Message: "insufficient permissions to perform this action"}
	ErrPrivateGroupJoin    = &Error{Kind: KindForbidden, Message: "cannot request to join a private group"}
	ErrNotPrivateGroup     = &Error{Kind: KindForbidden, Message: "can only invite users to private groups"}
	ErrOwnerCannotLeave    = &Error{Kind: KindOwnerCannotLeave, Message: "group owner cannot leave the group"}
	ErrSelfRemoval         = &Error{Kind: KindSelfRemoval, Message: "cannot remove yourself from the group"}
	ErrNotAMember          = &Error{Kind: KindNotAMember, Message: "you are not a member of any group"}
	ErrCodeGeneration      = &Error{Kind: KindGenerationFailure, Message: "could not generate a unique invite code"}
	ErrInvalidCapacity     = &Error{Kind: KindInvalidArgument, Message: "max capacity must be between 2 and 1000"}
)

// KindOf returns the taxonomy kind of err, or "" if err carries none.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err carries the given taxonomy kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
