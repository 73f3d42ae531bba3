// Package gateway defines the payments-gateway contract the withdrawal
// flow and fiat checkout depend on. No implementation lives here — the
// gateway SDK itself is an external collaborator outside this module's
// scope.
package gateway

import "context"

// CheckoutSession is the result of creating a hosted checkout session.
type CheckoutSession struct {
	SessionID   string
	RedirectURL string
}

// ConnectAccountLink is the result of creating a connected-account
// onboarding link for a seller or emergent payout recipient.
type ConnectAccountLink struct {
	AccountID string
	URL       string
}

// PayoutGateway is the set of capabilities the economic core requires
// from an external payments provider.
type PayoutGateway interface {
	// CreateCheckoutSession opens a hosted checkout session for a fiat
	// token purchase. idempotencyKey is server-controlled so retries
	// never double-charge.
	CreateCheckoutSession(ctx context.Context, idempotencyKey string, amountCents int64, currency string) (CheckoutSession, error)

	// VerifyWebhookSignature validates a webhook's signature against its
	// raw body and the shared secret, returning an error if it does not
	// match.
	VerifyWebhookSignature(rawBody []byte, signatureHeader, secret string) error

	// CreateConnectAccountLink starts onboarding for a connected payout
	// account.
	CreateConnectAccountLink(ctx context.Context, accountID, returnURL string) (ConnectAccountLink, error)

	// TransferToConnectedAccount pays amountCents out to a connected
	// account. idempotencyKey prevents duplicate payout on retry.
	TransferToConnectedAccount(ctx context.Context, idempotencyKey, accountID string, amountCents int64, currency string) error
}
