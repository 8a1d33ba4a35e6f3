package repository

import "context"

// ProxySignRepository talks to the remote ProxySign gateway.
type ProxySignRepository interface {
	// SignPadesAuto submits pdf for an automatic PAdES signature keyed by
	// alias and pin. On success the returned bytes are the signed PDF,
	// verbatim. Failures are entity.SigningRejectedError,
	// entity.SigningUnreachableError or entity.InvalidInputError.
	SignPadesAuto(ctx context.Context, alias, pin string, pdf []byte) ([]byte, error)
}
