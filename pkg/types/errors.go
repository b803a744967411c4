package types

import (
	"errors"
	"fmt"
)

// Step identifies one stage of the bootstrap sequence.
type Step string

// Bootstrap steps, in execution order.
const (
	StepPrecheck      Step = "precheck"
	StepCredential    Step = "credential"
	StepArtifacts     Step = "artifacts"
	StepWorldState    Step = "world-state"
	StepRuntimeConfig Step = "runtime-config"
	StepActivation    Step = "activation"
)

// StepError records which step of the sequence failed. The bootstrap
// stops at the first StepError and the process exits non-zero.
type StepError struct {
	Step Step
	Err  error
}

// Error returns the error message.
func (e *StepError) Error() string {
	return fmt.Sprintf("step %s: %v", e.Step, e.Err)
}

// Unwrap returns the underlying error.
func (e *StepError) Unwrap() error { return e.Err }

// NewStepError wraps err with the step it occurred in.
func NewStepError(step Step, err error) *StepError {
	return &StepError{Step: step, Err: err}
}

// MissingDependencyError indicates a required external tool is absent
// from the node. Detected eagerly, before any network call.
type MissingDependencyError struct {
	Tool string
}

// Error returns the error message.
func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("required tool %q not found on PATH", e.Tool)
}

// CredentialError indicates the deploy key could not be fetched or
// installed.
type CredentialError struct {
	Parameter string
	Err       error
}

// Error returns the error message.
func (e *CredentialError) Error() string {
	return fmt.Sprintf("deploy credential %q: %v", e.Parameter, e.Err)
}

// Unwrap returns the underlying error.
func (e *CredentialError) Unwrap() error { return e.Err }

// TransferError indicates a clone or object-storage download failed.
type TransferError struct {
	Source string
	Err    error
}

// Error returns the error message.
func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer from %s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransferError) Unwrap() error { return e.Err }

// ReconstitutionError indicates the world-state bundle is malformed or
// could not be restored into a repository.
type ReconstitutionError struct {
	Bundle string
	Err    error
}

// Error returns the error message.
func (e *ReconstitutionError) Error() string {
	return fmt.Sprintf("reconstitute bundle %s: %v", e.Bundle, e.Err)
}

// Unwrap returns the underlying error.
func (e *ReconstitutionError) Unwrap() error { return e.Err }

// ActivationError indicates the container stack could not be brought
// up, or its preconditions were not satisfied.
type ActivationError struct {
	Err error
}

// Error returns the error message.
func (e *ActivationError) Error() string {
	return fmt.Sprintf("activation: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *ActivationError) Unwrap() error { return e.Err }

// IsMissingDependency reports whether err is a MissingDependencyError.
func IsMissingDependency(err error) bool {
	var e *MissingDependencyError
	return errors.As(err, &e)
}

// IsCredentialError reports whether err is a CredentialError.
func IsCredentialError(err error) bool {
	var e *CredentialError
	return errors.As(err, &e)
}

// IsTransferError reports whether err is a TransferError.
func IsTransferError(err error) bool {
	var e *TransferError
	return errors.As(err, &e)
}

// IsReconstitutionError reports whether err is a ReconstitutionError.
func IsReconstitutionError(err error) bool {
	var e *ReconstitutionError
	return errors.As(err, &e)
}

// IsActivationError reports whether err is an ActivationError.
func IsActivationError(err error) bool {
	var e *ActivationError
	return errors.As(err, &e)
}

// FailedStep returns the step recorded on err, or an empty Step if err
// carries no step information.
func FailedStep(err error) Step {
	var se *StepError
	if errors.As(err, &se) {
		return se.Step
	}
	return ""
}
