// Package domain holds the sentinel errors and validation type shared by
// every layer. The self-check vocabulary lives in domain/check and the
// vehicle signal types in domain/signal.
package domain
