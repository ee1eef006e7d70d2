// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"errors"
	"time"

	"github.com/artpar/billgate/domain/checkout"
	"github.com/artpar/billgate/domain/invoice"
	"github.com/artpar/billgate/domain/payment"
	"github.com/artpar/billgate/domain/payout"
	"github.com/artpar/billgate/domain/promo"
)

// ErrNotFound is returned by stores when an entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned by stores when creating an entity whose ID
// (or unique key) already exists.
var ErrDuplicate = errors.New("already exists")

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// -----------------------------------------------------------------------------
// Data Store Ports
// -----------------------------------------------------------------------------

// Customer is the minimal customer record the billing core needs.
type Customer struct {
	ID          string
	Email       string
	Name        string
	Currency    string
	ProviderIDs map[string]string // provider name -> provider customer id
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CustomerStore persists customers.
type CustomerStore interface {
	// Get retrieves a customer by ID.
	Get(ctx context.Context, id string) (Customer, error)

	// GetByEmail retrieves a customer by email.
	GetByEmail(ctx context.Context, email string) (Customer, error)

	// Create stores a new customer.
	Create(ctx context.Context, c Customer) error

	// Update replaces an existing customer.
	Update(ctx context.Context, c Customer) error
}

// InvoiceStore persists invoices.
type InvoiceStore interface {
	// Get retrieves an invoice by ID.
	Get(ctx context.Context, id string) (invoice.Invoice, error)

	// Create stores a new invoice.
	Create(ctx context.Context, inv invoice.Invoice) error

	// Update replaces an invoice snapshot. Implementations must apply a
	// given transition at most once (e.g. optimistic concurrency on
	// status), since the core recomputes from whatever was read.
	Update(ctx context.Context, inv invoice.Invoice) error

	// ListByCustomer returns invoices for a customer, newest first.
	ListByCustomer(ctx context.Context, customerID string, limit int) ([]invoice.Invoice, error)

	// NextSequence returns the next invoice number sequence value.
	NextSequence(ctx context.Context) (int64, error)
}

// PaymentStore persists payments.
type PaymentStore interface {
	// Get retrieves a payment by ID.
	Get(ctx context.Context, id string) (payment.Payment, error)

	// Create stores a new payment.
	Create(ctx context.Context, p payment.Payment) error

	// Update replaces a payment snapshot.
	Update(ctx context.Context, p payment.Payment) error

	// ListByCustomer returns a customer's payments, oldest first.
	ListByCustomer(ctx context.Context, customerID string) ([]payment.Payment, error)
}

// CheckoutStore persists checkout sessions.
type CheckoutStore interface {
	// Get retrieves a session by ID.
	Get(ctx context.Context, id string) (checkout.Session, error)

	// Create stores a new session.
	Create(ctx context.Context, s checkout.Session) error

	// Update replaces a session snapshot.
	Update(ctx context.Context, s checkout.Session) error

	// ListOpen returns sessions still in the open status.
	ListOpen(ctx context.Context) ([]checkout.Session, error)
}

// PromoStore persists promo codes and their usage records.
type PromoStore interface {
	// GetByCode retrieves a promo code by its customer-facing code.
	GetByCode(ctx context.Context, code string) (promo.Code, error)

	// Create stores a new promo code.
	Create(ctx context.Context, c promo.Code) error

	// Update replaces a promo code snapshot. UsedCount increments must be
	// applied at most once per redemption.
	Update(ctx context.Context, c promo.Code) error

	// RecordUsage stores one redemption.
	RecordUsage(ctx context.Context, u promo.Usage) error

	// UsageByCustomer returns a customer's complete usage history.
	UsageByCustomer(ctx context.Context, customerID string) ([]promo.Usage, error)
}

// VendorStore persists vendors.
type VendorStore interface {
	// Get retrieves a vendor by ID.
	Get(ctx context.Context, id string) (payout.Vendor, error)

	// Create stores a new vendor.
	Create(ctx context.Context, v payout.Vendor) error

	// Update replaces a vendor snapshot.
	Update(ctx context.Context, v payout.Vendor) error
}

// PayoutStore persists vendor payouts.
type PayoutStore interface {
	// Get retrieves a payout by ID.
	Get(ctx context.Context, id string) (payout.Payout, error)

	// Create stores a new payout.
	Create(ctx context.Context, p payout.Payout) error

	// Update replaces a payout snapshot.
	Update(ctx context.Context, p payout.Payout) error

	// ListByVendor returns a vendor's payouts, newest first.
	ListByVendor(ctx context.Context, vendorID string, limit int) ([]payout.Payout, error)
}

// -----------------------------------------------------------------------------
// Notification Ports
// -----------------------------------------------------------------------------

// EmailMessage is an outbound notification.
type EmailMessage struct {
	To      string
	Subject string
	Body    string
}

// EmailSender delivers notifications (grace-period warnings, receipts).
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// -----------------------------------------------------------------------------
// Payment Provider Ports
// -----------------------------------------------------------------------------

// PaymentProvider interfaces with a payment network (Stripe, MercadoPago).
// The core never calls these directly; app services do, and only with
// data computed by the domain layer.
type PaymentProvider interface {
	// Name returns the provider name (e.g. "stripe", "mercadopago").
	Name() string

	// CreateCustomer creates a customer in the payment network and
	// returns the provider's customer id.
	CreateCustomer(ctx context.Context, email, name, customerID string) (string, error)

	// CreateCheckoutSession registers a checkout session with the
	// provider and returns the provider's session id and redirect URL.
	CreateCheckoutSession(ctx context.Context, s checkout.Session) (providerSessionID, redirectURL string, err error)

	// CreatePayout initiates a vendor disbursement and returns the
	// provider's payout id.
	CreatePayout(ctx context.Context, providerAccountID string, amount int64, currency string) (string, error)
}
