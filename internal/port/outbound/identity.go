package outbound

import "context"

// IdentityVerifierPort exchanges a bearer credential for an account id.
type IdentityVerifierPort interface {
	Verify(ctx context.Context, credential string) (string, error)
}
