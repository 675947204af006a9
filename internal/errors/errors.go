package errors

import (
	"errors"
	"fmt"
)

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// Is enables errors.Is() comparison for NotFoundError
func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// ForbiddenError represents a Deny verdict from the policy engine.
// It is an ordinary, recoverable result and must never be swallowed or
// downgraded to an allow.
type ForbiddenError struct {
	Action string
	Scope  string
}

func (e *ForbiddenError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("forbidden: %s in scope %s", e.Action, e.Scope)
	}
	return "forbidden"
}

// Is enables errors.Is() comparison regardless of action/scope detail
func (e *ForbiddenError) Is(target error) bool {
	_, ok := target.(*ForbiddenError)
	return ok
}

// ConflictError represents an error when an entity already exists
type ConflictError struct {
	Entity  string
	Context string // Additional context like "in organization"
}

func (e *ConflictError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s already exists %s", e.Entity, e.Context)
	}
	return fmt.Sprintf("%s already exists", e.Entity)
}

// Is enables errors.Is() comparison for ConflictError
func (e *ConflictError) Is(target error) bool {
	t, ok := target.(*ConflictError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// InconsistentTenantError is returned when a child record declares an
// organization that disagrees with its parent's resolved organization.
// The write is always rejected, never silently corrected.
type InconsistentTenantError struct {
	Entity string
}

func (e *InconsistentTenantError) Error() string {
	return fmt.Sprintf("%s organization does not match its parent's organization", e.Entity)
}

func (e *InconsistentTenantError) Is(target error) bool {
	_, ok := target.(*InconsistentTenantError)
	return ok
}

// TransactionError wraps a failure inside an atomic multi-step operation.
// The operation rolled back; the caller must treat the target as fully present.
type TransactionError struct {
	Operation string
	Err       error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Operation, e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

func (e *TransactionError) Is(target error) bool {
	_, ok := target.(*TransactionError)
	return ok
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// AuthenticationError represents authentication-related errors
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// Entity Not Found Errors
var (
	ErrIdentityNotFound     = &NotFoundError{Entity: "identity"}
	ErrOrganizationNotFound = &NotFoundError{Entity: "organization"}
	ErrMembershipNotFound   = &NotFoundError{Entity: "membership"}
	ErrClientNotFound       = &NotFoundError{Entity: "client"}
	ErrProjectNotFound      = &NotFoundError{Entity: "project"}
	ErrTaskNotFound         = &NotFoundError{Entity: "task"}
	ErrInvoiceNotFound      = &NotFoundError{Entity: "invoice"}
	ErrLineItemNotFound     = &NotFoundError{Entity: "invoice line item"}
	ErrAttachmentNotFound   = &NotFoundError{Entity: "attachment"}
)

// Conflict Errors
var (
	ErrOrganizationExists  = &ConflictError{Entity: "organization", Context: "with this name or slug"}
	ErrMembershipExists    = &ConflictError{Entity: "membership", Context: "for this identity in the organization"}
	ErrIdentityExists      = &ConflictError{Entity: "identity", Context: "with this email"}
	ErrInvoiceNumberExists = &ConflictError{Entity: "invoice", Context: "with this number in the organization"}
)

// Authorization / Authentication Errors
var (
	ErrForbidden          = &ForbiddenError{}
	ErrInvalidCredentials = &AuthenticationError{Message: "invalid email or password"}
	ErrPasswordResetDue   = &AuthenticationError{Message: "credential reset required before first use"}
)

// Helper Functions

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsForbidden checks if an error is a ForbiddenError
func IsForbidden(err error) bool {
	var forbiddenErr *ForbiddenError
	return errors.As(err, &forbiddenErr)
}

// IsConflict checks if an error is a ConflictError
func IsConflict(err error) bool {
	var conflictErr *ConflictError
	return errors.As(err, &conflictErr)
}

// IsInconsistentTenant checks if an error is an InconsistentTenantError
func IsInconsistentTenant(err error) bool {
	var inconsistentErr *InconsistentTenantError
	return errors.As(err, &inconsistentErr)
}

// IsTransaction checks if an error is a TransactionError
func IsTransaction(err error) bool {
	var txErr *TransactionError
	return errors.As(err, &txErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsAuthentication checks if an error is an AuthenticationError
func IsAuthentication(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

// NewNotFoundError creates a new NotFoundError for a custom entity
func NewNotFoundError(entity string) error {
	return &NotFoundError{Entity: entity}
}

// NewForbiddenError creates a ForbiddenError carrying the denied action and scope
func NewForbiddenError(action, scope string) error {
	return &ForbiddenError{Action: action, Scope: scope}
}

// NewConflictError creates a new ConflictError for a custom entity
func NewConflictError(entity, context string) error {
	return &ConflictError{Entity: entity, Context: context}
}

// NewInconsistentTenantError creates an InconsistentTenantError for the given entity
func NewInconsistentTenantError(entity string) error {
	return &InconsistentTenantError{Entity: entity}
}

// NewTransactionError wraps err as a rolled-back transactional operation
func NewTransactionError(operation string, err error) error {
	return &TransactionError{Operation: operation, Err: err}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewAuthenticationError creates a new AuthenticationError
func NewAuthenticationError(message string) error {
	return &AuthenticationError{Message: message}
}
