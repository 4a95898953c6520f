// ABOUTME: Startup sequence run once per process after storage opens.
// ABOUTME: Seeds default categories, then runs the repair pass; failures are logged, never fatal.
package bootstrap

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/tmccoy01/healthplus/internal/category"
	"github.com/tmccoy01/healthplus/internal/models"
	"github.com/tmccoy01/healthplus/internal/repair"
	"github.com/tmccoy01/healthplus/internal/storage"
	"go.uber.org/multierr"
)

// Result reports what startup changed.
type Result struct {
	Seeded []*models.Category
	Repair repair.Report
}

// Run seeds missing default categories and then repairs stored sessions.
// A failing step does not stop the next one. The returned error combines
// every step failure; callers may keep running with it.
func Run(ctx context.Context, store storage.Repository, log logrus.FieldLogger) (Result, error) {
	var (
		res  Result
		errs error
	)

	seeded, err := category.NewRegistry(store).SeedDefaults(ctx)
	if err != nil {
		log.WithError(err).Error("seeding default categories failed")
		errs = multierr.Append(errs, err)
	} else {
		res.Seeded = seeded
		if len(seeded) > 0 {
			log.WithField("count", len(seeded)).Info("seeded default categories")
		}
	}

	report, err := repair.Run(ctx, store)
	if err != nil {
		log.WithError(err).Error("repair pass failed")
		errs = multierr.Append(errs, err)
	} else {
		res.Repair = report
		if report.HasFixes {
			log.WithFields(logrus.Fields{
				"sessions": report.SessionsTouched,
				"fixes":    report.TotalFixes,
			}).Info("repaired stored sessions")
		}
	}

	return res, errs
}
