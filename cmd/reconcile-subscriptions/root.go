package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ManuelReschke/LinkFox/internal/pkg/auditarchive"
	"github.com/ManuelReschke/LinkFox/internal/pkg/billing"
	"github.com/ManuelReschke/LinkFox/internal/pkg/config"
	"github.com/ManuelReschke/LinkFox/internal/pkg/reconciler"
)

type deps struct {
	newAPI      func(secretKey string) billing.API
	newArchiver func(ctx context.Context, cfg config.ArchiveConfig) (reconciler.Archiver, error)
}

func defaultDeps() deps {
	return deps{
		newAPI: func(secretKey string) billing.API {
			return billing.NewStripeClient(secretKey)
		},
		newArchiver: func(ctx context.Context, cfg config.ArchiveConfig) (reconciler.Archiver, error) {
			return auditarchive.NewClient(ctx, cfg)
		},
	}
}

func newRootCmd(cfg *config.Config, d deps) *cobra.Command {
	var (
		output   string
		pageSize int
		archive  bool
	)

	cmd := &cobra.Command{
		Use:   "reconcile-subscriptions",
		Short: "Cancel duplicate live Stripe subscriptions",
		Long: `Scans every Stripe customer and keeps only the oldest active or trialing
subscription. Every other live subscription is canceled. When duplicates were
found, a transcript of kept, canceled and failed subscriptions is written to
the output file.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Stripe.SecretKey == "" {
				return fmt.Errorf("%w: STRIPE_SECRET_KEY", config.ErrMissingConfig)
			}
			cfg.Reconciler.OutputPath = output
			cfg.Reconciler.PageSize = pageSize
			if err := cfg.Validate(config.SectionReconciler); err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			opts := reconciler.Options{PageSize: pageSize, OutputPath: output}
			if archive || cfg.Archive.Enabled {
				cfg.Archive.Enabled = true
				if err := cfg.Validate(config.SectionArchive); err != nil {
					return err
				}
				archiver, err := d.newArchiver(ctx, cfg.Archive)
				if err != nil {
					return fmt.Errorf("audit archive: %w", err)
				}
				opts.Archiver = archiver
			}

			report, err := reconciler.New(d.newAPI(cfg.Stripe.SecretKey), opts).Run(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Customers scanned: %d\n", report.CustomersScanned)
			fmt.Fprintf(out, "Duplicates found: %d (canceled %d, failed %d)\n", report.Duplicates, report.Canceled, report.Failed)
			if report.Written {
				fmt.Fprintf(out, "Transcript: %s\n", output)
			}
			if report.ArchiveKey != "" {
				fmt.Fprintf(out, "Archived as: %s\n", report.ArchiveKey)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", cfg.Reconciler.OutputPath, "transcript file, overwritten on every run with duplicates")
	cmd.Flags().IntVar(&pageSize, "page-size", cfg.Reconciler.PageSize, "customers fetched per page (1-100)")
	cmd.Flags().BoolVar(&archive, "archive", false, "upload the transcript to S3 (same as AUDIT_ARCHIVE_ENABLED=true)")
	return cmd
}
