package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"
)

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit                     []OnInit
	onShutdown                 []OnShutdown
	onBatchRecorded            []OnBatchRecorded
	onMint                     []OnMint
	onBurn                     []OnBurn
	onTreasuryInvariantViolated []OnTreasuryInvariantViolated
	onFeeSplit                 []OnFeeSplit
	onCitationDeclared         []OnCitationDeclared
	onCascadePaid              []OnCascadePaid
	onPurchaseCreated          []OnPurchaseCreated
	onPurchaseTransitioned     []OnPurchaseTransitioned
	onPurchaseFailed           []OnPurchaseFailed
	onEmergentTransfer         []OnEmergentTransfer
	onEmergentWithdrawRejected []OnEmergentWithdrawRejected
	onWithdrawalPending        []OnWithdrawalPending
	onWithdrawalSettled        []OnWithdrawalSettled
	onWithdrawalReversed       []OnWithdrawalReversed
	onVaultStored              []OnVaultStored
	onVaultSwept               []OnVaultSwept
	onReconciliationRun        []OnReconciliationRun
	onDriftAlert               []OnDriftAlert
	washTradeDetectors         []WashTradeDetector
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnBatchRecorded); ok {
		r.onBatchRecorded = append(r.onBatchRecorded, v)
	}
	if v, ok := p.(OnMint); ok {
		r.onMint = append(r.onMint, v)
	}
	if v, ok := p.(OnBurn); ok {
		r.onBurn = append(r.onBurn, v)
	}
	if v, ok := p.(OnTreasuryInvariantViolated); ok {
		r.onTreasuryInvariantViolated = append(r.onTreasuryInvariantViolated, v)
	}
	if v, ok := p.(OnFeeSplit); ok {
		r.onFeeSplit = append(r.onFeeSplit, v)
	}
	if v, ok := p.(OnCitationDeclared); ok {
		r.onCitationDeclared = append(r.onCitationDeclared, v)
	}
	if v, ok := p.(OnCascadePaid); ok {
		r.onCascadePaid = append(r.onCascadePaid, v)
	}
	if v, ok := p.(OnPurchaseCreated); ok {
		r.onPurchaseCreated = append(r.onPurchaseCreated, v)
	}
	if v, ok := p.(OnPurchaseTransitioned); ok {
		r.onPurchaseTransitioned = append(r.onPurchaseTransitioned, v)
	}
	if v, ok := p.(OnPurchaseFailed); ok {
		r.onPurchaseFailed = append(r.onPurchaseFailed, v)
	}
	if v, ok := p.(OnEmergentTransfer); ok {
		r.onEmergentTransfer = append(r.onEmergentTransfer, v)
	}
	if v, ok := p.(OnEmergentWithdrawRejected); ok {
		r.onEmergentWithdrawRejected = append(r.onEmergentWithdrawRejected, v)
	}
	if v, ok := p.(OnWithdrawalPending); ok {
		r.onWithdrawalPending = append(r.onWithdrawalPending, v)
	}
	if v, ok := p.(OnWithdrawalSettled); ok {
		r.onWithdrawalSettled = append(r.onWithdrawalSettled, v)
	}
	if v, ok := p.(OnWithdrawalReversed); ok {
		r.onWithdrawalReversed = append(r.onWithdrawalReversed, v)
	}
	if v, ok := p.(OnVaultStored); ok {
		r.onVaultStored = append(r.onVaultStored, v)
	}
	if v, ok := p.(OnVaultSwept); ok {
		r.onVaultSwept = append(r.onVaultSwept, v)
	}
	if v, ok := p.(OnReconciliationRun); ok {
		r.onReconciliationRun = append(r.onReconciliationRun, v)
	}
	if v, ok := p.(OnDriftAlert); ok {
		r.onDriftAlert = append(r.onDriftAlert, v)
	}
	if v, ok := p.(WashTradeDetector); ok {
		r.washTradeDetectors = append(r.washTradeDetectors, v)
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", r.getImplementedInterfaces(p),
	)

	return nil
}

// getImplementedInterfaces returns a list of interfaces implemented by the plugin.
func (r *Registry) getImplementedInterfaces(p Plugin) []string {
	var interfaces []string
	v := reflect.TypeOf(p)

	checkInterface := func(iface reflect.Type, name string) {
		if v.Implements(iface) {
			interfaces = append(interfaces, name)
		}
	}

	checkInterface(reflect.TypeOf((*OnInit)(nil)).Elem(), "OnInit")
	checkInterface(reflect.TypeOf((*OnShutdown)(nil)).Elem(), "OnShutdown")
	checkInterface(reflect.TypeOf((*OnMint)(nil)).Elem(), "OnMint")
	checkInterface(reflect.TypeOf((*OnBurn)(nil)).Elem(), "OnBurn")
	checkInterface(reflect.TypeOf((*OnPurchaseCreated)(nil)).Elem(), "OnPurchaseCreated")
	checkInterface(reflect.TypeOf((*OnCascadePaid)(nil)).Elem(), "OnCascadePaid")
	checkInterface(reflect.TypeOf((*OnEmergentTransfer)(nil)).Elem(), "OnEmergentTransfer")
	checkInterface(reflect.TypeOf((*OnVaultStored)(nil)).Elem(), "OnVaultStored")
	checkInterface(reflect.TypeOf((*OnReconciliationRun)(nil)).Elem(), "OnReconciliationRun")
	checkInterface(reflect.TypeOf((*WashTradeDetector)(nil)).Elem(), "WashTradeDetector")

	return interfaces
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, ledger interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, ledger)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitBatchRecorded emits a batch recorded event.
func (r *Registry) EmitBatchRecorded(ctx context.Context, batch interface{}) {
	r.mu.RLock()
	plugins := r.onBatchRecorded
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnBatchRecorded(ctx, batch)
		}); err != nil {
			r.logger.Warn("plugin OnBatchRecorded failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitMint emits a treasury mint event.
func (r *Registry) EmitMint(ctx context.Context, amountCents int64, event interface{}) {
	r.mu.RLock()
	plugins := r.onMint
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnMint(ctx, amountCents, event)
		}); err != nil {
			r.logger.Warn("plugin OnMint failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitBurn emits a treasury burn event.
func (r *Registry) EmitBurn(ctx context.Context, amountCents int64, event interface{}) {
	r.mu.RLock()
	plugins := r.onBurn
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnBurn(ctx, amountCents, event)
		}); err != nil {
			r.logger.Warn("plugin OnBurn failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitTreasuryInvariantViolated emits a fatal solvency-invariant event.
func (r *Registry) EmitTreasuryInvariantViolated(ctx context.Context, detail string) {
	r.mu.RLock()
	plugins := r.onTreasuryInvariantViolated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnTreasuryInvariantViolated(ctx, detail)
		}); err != nil {
			r.logger.Warn("plugin OnTreasuryInvariantViolated failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitFeeSplit emits a fee-split distribution event.
func (r *Registry) EmitFeeSplit(ctx context.Context, dist interface{}) {
	r.mu.RLock()
	plugins := r.onFeeSplit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnFeeSplit(ctx, dist)
		}); err != nil {
			r.logger.Warn("plugin OnFeeSplit failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitCitationDeclared emits a citation-edge-inserted event.
func (r *Registry) EmitCitationDeclared(ctx context.Context, edge interface{}) {
	r.mu.RLock()
	plugins := r.onCitationDeclared
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnCitationDeclared(ctx, edge)
		}); err != nil {
			r.logger.Warn("plugin OnCitationDeclared failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitCascadePaid emits a royalty cascade payout event.
func (r *Registry) EmitCascadePaid(ctx context.Context, payouts []interface{}) {
	r.mu.RLock()
	plugins := r.onCascadePaid
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnCascadePaid(ctx, payouts)
		}); err != nil {
			r.logger.Warn("plugin OnCascadePaid failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitPurchaseCreated emits a purchase created event.
func (r *Registry) EmitPurchaseCreated(ctx context.Context, purchase interface{}) {
	r.mu.RLock()
	plugins := r.onPurchaseCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnPurchaseCreated(ctx, purchase)
		}); err != nil {
			r.logger.Warn("plugin OnPurchaseCreated failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitPurchaseTransitioned emits a purchase state-transition event.
func (r *Registry) EmitPurchaseTransitioned(ctx context.Context, purchase interface{}, from, to string) {
	r.mu.RLock()
	plugins := r.onPurchaseTransitioned
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnPurchaseTransitioned(ctx, purchase, from, to)
		}); err != nil {
			r.logger.Warn("plugin OnPurchaseTransitioned failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitPurchaseFailed emits a purchase-failed event.
func (r *Registry) EmitPurchaseFailed(ctx context.Context, purchase interface{}, reason string) {
	r.mu.RLock()
	plugins := r.onPurchaseFailed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnPurchaseFailed(ctx, purchase, reason)
		}); err != nil {
			r.logger.Warn("plugin OnPurchaseFailed failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitEmergentTransfer emits an emergent operating<->reserve transfer event.
func (r *Registry) EmitEmergentTransfer(ctx context.Context, emergentID string, amountCents int64) {
	r.mu.RLock()
	plugins := r.onEmergentTransfer
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnEmergentTransfer(ctx, emergentID, amountCents)
		}); err != nil {
			r.logger.Warn("plugin OnEmergentTransfer failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitEmergentWithdrawRejected emits a rejected fiat-exit attempt event.
func (r *Registry) EmitEmergentWithdrawRejected(ctx context.Context, emergentID string) {
	r.mu.RLock()
	plugins := r.onEmergentWithdrawRejected
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnEmergentWithdrawRejected(ctx, emergentID)
		}); err != nil {
			r.logger.Warn("plugin OnEmergentWithdrawRejected failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitWithdrawalPending emits a withdrawal-staged event.
func (r *Registry) EmitWithdrawalPending(ctx context.Context, batchID string, amountCents int64) {
	r.mu.RLock()
	plugins := r.onWithdrawalPending
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnWithdrawalPending(ctx, batchID, amountCents)
		}); err != nil {
			r.logger.Warn("plugin OnWithdrawalPending failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitWithdrawalSettled emits a withdrawal-settled event.
func (r *Registry) EmitWithdrawalSettled(ctx context.Context, batchID string, amountCents int64) {
	r.mu.RLock()
	plugins := r.onWithdrawalSettled
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnWithdrawalSettled(ctx, batchID, amountCents)
		}); err != nil {
			r.logger.Warn("plugin OnWithdrawalSettled failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitWithdrawalReversed emits a withdrawal-reversed event.
func (r *Registry) EmitWithdrawalReversed(ctx context.Context, batchID string, reason string) {
	r.mu.RLock()
	plugins := r.onWithdrawalReversed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnWithdrawalReversed(ctx, batchID, reason)
		}); err != nil {
			r.logger.Warn("plugin OnWithdrawalReversed failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitVaultStored emits a vault store/dedup event.
func (r *Registry) EmitVaultStored(ctx context.Context, hash string, deduplicated bool, additionalBytes int64) {
	r.mu.RLock()
	plugins := r.onVaultStored
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnVaultStored(ctx, hash, deduplicated, additionalBytes)
		}); err != nil {
			r.logger.Warn("plugin OnVaultStored failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitVaultSwept emits a vault GC sweep event.
func (r *Registry) EmitVaultSwept(ctx context.Context, removed int) {
	r.mu.RLock()
	plugins := r.onVaultSwept
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnVaultSwept(ctx, removed)
		}); err != nil {
			r.logger.Warn("plugin OnVaultSwept failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitReconciliationRun emits a reconciliation-run-completed event.
func (r *Registry) EmitReconciliationRun(ctx context.Context, run interface{}) {
	r.mu.RLock()
	plugins := r.onReconciliationRun
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnReconciliationRun(ctx, run)
		}); err != nil {
			r.logger.Warn("plugin OnReconciliationRun failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitDriftAlert emits a reconciliation drift alert event.
func (r *Registry) EmitDriftAlert(ctx context.Context, driftCents int64, detail string) {
	r.mu.RLock()
	plugins := r.onDriftAlert
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnDriftAlert(ctx, driftCents, detail)
		}); err != nil {
			r.logger.Warn("plugin OnDriftAlert failed", "plugin", p.Name(), "error", err)
		}
	}
}

// WashTradeDetectors returns all registered wash-trade detector plugins.
func (r *Registry) WashTradeDetectors() []WashTradeDetector {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]WashTradeDetector, len(r.washTradeDetectors))
	copy(result, r.washTradeDetectors)
	return result
}

// callWithTimeout calls a plugin function with a timeout. Plugins must
// never block the economic core's critical path.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
