// Package reconciler cancels duplicate live subscriptions so every customer
// keeps at most one active or trialing subscription.
package reconciler

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/LinkFox/internal/pkg/billing"
	"github.com/ManuelReschke/LinkFox/internal/pkg/metrics"
)

const (
	DefaultPageSize   = 100
	DefaultOutputPath = "subscription-cleanup.log"
)

// Archiver receives the audit transcript after it was written locally.
type Archiver interface {
	Archive(ctx context.Context, data []byte) (string, error)
}

type Options struct {
	PageSize   int
	OutputPath string
	// Archiver is optional.
	Archiver Archiver
}

// Report summarizes one run.
type Report struct {
	CustomersScanned  int
	CustomersAffected int
	Duplicates        int
	Canceled          int
	Failed            int
	Lines             []string
	// Written is true when the transcript was saved to OutputPath.
	Written bool
	// ArchiveKey is set when the transcript was archived.
	ArchiveKey string
}

type Reconciler struct {
	api       billing.API
	opts      Options
	writeFile func(name string, data []byte, perm os.FileMode) error
}

func New(api billing.API, opts Options) *Reconciler {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.OutputPath == "" {
		opts.OutputPath = DefaultOutputPath
	}
	return &Reconciler{api: api, opts: opts, writeFile: os.WriteFile}
}

// Run scans every customer sequentially. A failed cancellation is recorded and
// skipped; a failed listing aborts the run and nothing is written.
func (r *Reconciler) Run(ctx context.Context) (Report, error) {
	var report Report

	err := r.api.ListCustomers(ctx, r.opts.PageSize, func(c billing.Customer) error {
		report.CustomersScanned++
		metrics.ReconcilerCustomersScanned.Inc()
		return r.reconcileCustomer(ctx, c, &report)
	})
	if err != nil {
		log.Errorf("[Reconciler] Run aborted after %d customers: %v", report.CustomersScanned, err)
		return Report{CustomersScanned: report.CustomersScanned}, err
	}

	if report.Duplicates == 0 {
		log.Infof("[Reconciler] Scanned %d customers, no duplicate subscriptions", report.CustomersScanned)
		return report, nil
	}

	data := []byte(strings.Join(report.Lines, "\n"))
	if err := r.writeFile(r.opts.OutputPath, data, 0o644); err != nil {
		return report, fmt.Errorf("write audit log %s: %w", r.opts.OutputPath, err)
	}
	report.Written = true
	log.Infof("[Reconciler] Scanned %d customers, canceled %d, failed %d; transcript written to %s",
		report.CustomersScanned, report.Canceled, report.Failed, r.opts.OutputPath)

	if r.opts.Archiver != nil {
		key, err := r.opts.Archiver.Archive(ctx, data)
		if err != nil {
			log.Warnf("[Reconciler] Archiving transcript failed: %v", err)
		} else {
			report.ArchiveKey = key
		}
	}
	return report, nil
}

func (r *Reconciler) reconcileCustomer(ctx context.Context, c billing.Customer, report *Report) error {
	subs, err := r.api.ListSubscriptions(ctx, c.ID)
	if err != nil {
		return err
	}

	keeper, duplicates := SplitDuplicates(subs)
	if len(duplicates) == 0 {
		return nil
	}

	report.CustomersAffected++
	report.Duplicates += len(duplicates)
	metrics.ReconcilerDuplicatesFound.Add(float64(len(duplicates)))
	log.Infof("[Reconciler] Customer %s has %d live subscriptions, keeping %s", c.ID, len(duplicates)+1, keeper.ID)
	report.Lines = append(report.Lines, "Mantida: "+keeper.ID)

	for _, dup := range duplicates {
		if err := r.api.CancelSubscription(ctx, dup.ID); err != nil {
			log.Errorf("[Reconciler] Failed to cancel %s: %v", dup.ID, err)
			report.Failed++
			metrics.ReconcilerCancellations.WithLabelValues("failed").Inc()
			report.Lines = append(report.Lines, fmt.Sprintf("Falha ao cancelar %s: %v", dup.ID, err))
			continue
		}
		report.Canceled++
		metrics.ReconcilerCancellations.WithLabelValues("canceled").Inc()
		report.Lines = append(report.Lines, "Cancelada: "+dup.ID)
	}
	return nil
}

// SplitDuplicates picks the oldest live subscription as the keeper and returns
// every other live one as a duplicate, oldest first. Inactive subscriptions are
// ignored. With at most one live subscription there are no duplicates.
func SplitDuplicates(subs []billing.Subscription) (billing.Subscription, []billing.Subscription) {
	live := make([]billing.Subscription, 0, len(subs))
	for _, s := range subs {
		if billing.IsLiveStatus(s.Status) {
			live = append(live, s)
		}
	}
	if len(live) <= 1 {
		return billing.Subscription{}, nil
	}

	sort.SliceStable(live, func(i, j int) bool {
		return live[i].CreatedAt.Before(live[j].CreatedAt)
	})
	return live[0], live[1:]
}
