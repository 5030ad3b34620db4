// Package auth inspects the bearer tokens the youwol clients send.
//
// Tokens are issued by the platform's identity provider and verified by the
// backends. The client only needs their claims: the subject to label logs
// and the expiry to fail fast instead of sending a request that will be
// rejected. ParseToken therefore reads the claims without verifying the
// signature.
package auth
