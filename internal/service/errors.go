package service

import "errors"

// Flow-level errors for the login bridge and account deletion. Handlers map
// these onto the client-facing failure envelope; none of them are retried
// automatically inside a flow.
var (
	// ErrInvalidProviderToken: the OAuth provider rejected or could not
	// validate the presented access token.
	ErrInvalidProviderToken = errors.New("provider token verification failed")

	// ErrProvisioningFailed: the session backend could not create the auth
	// record for a reason other than "already exists".
	ErrProvisioningFailed = errors.New("auth account provisioning failed")

	// ErrSessionBootstrapFailed: issuing or redeeming the one-time login
	// link failed, or the response lacked the fields needed to continue.
	ErrSessionBootstrapFailed = errors.New("session bootstrap failed")

	// ErrAccountDataDeleteFailed: deleting the local user row failed before
	// anything destructive happened. Safe to retry.
	ErrAccountDataDeleteFailed = errors.New("account data deletion failed, nothing has been removed")

	// ErrAccountCredentialOrphaned: local data is gone but the auth record
	// could not be deleted. NOT safe to blindly retry; the reconcile job
	// (or an operator) must finish the deletion.
	ErrAccountCredentialOrphaned = errors.New("auth credential deletion failed after account data was removed")
)
