// Package metrics provides Prometheus metrics collection for BillGate.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all Prometheus metrics for BillGate.
type Collector struct {
	// Invoice metrics
	InvoicesFinalized prometheus.Counter
	InvoicesPaid      prometheus.Counter
	InvoicesVoided    prometheus.Counter
	InvoiceAmountDue  prometheus.Histogram

	// Payment metrics
	PaymentAttempts  *prometheus.CounterVec
	PaymentRetries   prometheus.Counter
	GraceWarnings    prometheus.Counter
	GraceExpirations prometheus.Counter

	// Checkout metrics
	CheckoutSessions  *prometheus.CounterVec
	CheckoutCompleted prometheus.Counter
	CheckoutExpired   prometheus.Counter

	// Promo metrics
	PromoRedemptions *prometheus.CounterVec
	PromoRejections  *prometheus.CounterVec

	// Payout metrics
	PayoutsCreated prometheus.Counter
	PayoutsFailed  prometheus.Counter
	PayoutAmount   prometheus.Histogram

	// Config metrics
	ConfigReloads      prometheus.Counter
	ConfigReloadErrors prometheus.Counter
	ConfigLastReload   prometheus.Gauge
}

// New creates a new metrics collector registered on the default registry.
func New() *Collector {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a new metrics collector with a custom registry.
// Useful for testing to avoid global state.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		// Invoice metrics
		InvoicesFinalized: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "billgate",
				Name:      "invoices_finalized_total",
				Help:      "Total number of invoices finalized",
			},
		),
		InvoicesPaid: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "billgate",
				Name:      "invoices_paid_total",
				Help:      "Total number of invoices paid",
			},
		),
		InvoicesVoided: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "billgate",
				Name:      "invoices_voided_total",
				Help:      "Total number of invoices voided",
			},
		),
		InvoiceAmountDue: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "billgate",
				Name:      "invoice_amount_due_minor_units",
				Help:      "Amount due on finalized invoices in minor currency units",
				Buckets:   prometheus.ExponentialBuckets(100, 4, 10),
			},
		),

		// Payment metrics
		PaymentAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "billgate",
				Name:      "payment_attempts_total",
				Help:      "Total payment attempts by outcome",
			},
			[]string{"status"},
		),
		PaymentRetries: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "billgate",
				Name:      "payment_retries_total",
				Help:      "Total scheduled payment retries executed",
			},
		),
		GraceWarnings: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "billgate",
				Name:      "grace_warnings_total",
				Help:      "Total grace-period warning emails sent",
			},
		),
		GraceExpirations: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "billgate",
				Name:      "grace_expirations_total",
				Help:      "Total subscriptions whose grace period expired",
			},
		),

		// Checkout metrics
		CheckoutSessions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "billgate",
				Name:      "checkout_sessions_total",
				Help:      "Total checkout sessions created by mode",
			},
			[]string{"mode"},
		),
		CheckoutCompleted: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "billgate",
				Name:      "checkout_completed_total",
				Help:      "Total checkout sessions completed",
			},
		),
		CheckoutExpired: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "billgate",
				Name:      "checkout_expired_total",
				Help:      "Total checkout sessions expired",
			},
		),

		// Promo metrics
		PromoRedemptions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "billgate",
				Name:      "promo_redemptions_total",
				Help:      "Total promo code redemptions",
			},
			[]string{"code"},
		),
		PromoRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "billgate",
				Name:      "promo_rejections_total",
				Help:      "Total rejected promo code redemptions by reason",
			},
			[]string{"reason"},
		),

		// Payout metrics
		PayoutsCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "billgate",
				Name:      "payouts_created_total",
				Help:      "Total vendor payouts created",
			},
		),
		PayoutsFailed: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "billgate",
				Name:      "payouts_failed_total",
				Help:      "Total vendor payouts that failed",
			},
		),
		PayoutAmount: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "billgate",
				Name:      "payout_amount_minor_units",
				Help:      "Vendor payout amounts in minor currency units",
				Buckets:   prometheus.ExponentialBuckets(100, 4, 10),
			},
		),

		// Config metrics
		ConfigReloads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "billgate",
				Name:      "config_reloads_total",
				Help:      "Total number of successful config reloads",
			},
		),
		ConfigReloadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "billgate",
				Name:      "config_reload_errors_total",
				Help:      "Total number of config reload errors",
			},
		),
		ConfigLastReload: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "billgate",
				Name:      "config_last_reload_timestamp",
				Help:      "Unix timestamp of last successful config reload",
			},
		),
	}
}
