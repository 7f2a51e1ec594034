package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/prospect-cli/internal/enrich"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/store"
	"github.com/sells-group/prospect-cli/pkg/rdap"
)

const (
	sourceKeywordRule = "keyword_rule"
	sourceDomainAge   = "domain_age"
)

var (
	enrichSource     string
	enrichLimit      int
	enrichSkipDomain bool
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Estimate employee count, revenue, and years in business for stored records",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		businesses, err := st.ListBusinesses(ctx, store.ListOpts{
			Source: enrichSource,
			Limit:  enrichLimit,
		})
		if err != nil {
			return eris.Wrap(err, "list businesses")
		}

		employees, err := enrich.NewEmployeeEstimator()
		if err != nil {
			return err
		}
		multipliers := enrich.Multipliers{
			PerEmployeeMin: cfg.Enrich.RevenuePerEmployeeMin,
			PerEmployeeMax: cfg.Enrich.RevenuePerEmployeeMax,
		}

		var domainAge *enrich.DomainAgeEstimator
		if !enrichSkipDomain {
			opts := []rdap.Option{}
			if cfg.RDAP.BaseURL != "" {
				opts = append(opts, rdap.WithBaseURL(cfg.RDAP.BaseURL))
			}
			if cfg.RDAP.TimeoutSecs > 0 {
				opts = append(opts, rdap.WithTimeout(time.Duration(cfg.RDAP.TimeoutSecs)*time.Second))
			}
			domainAge = enrich.NewDomainAgeEstimator(rdap.NewClient(opts...), cfg.Enrich.DomainAgeConfidence)
		}

		// One lookup per delay interval; RDAP registries rate limit hard.
		limiter := rate.NewLimiter(rate.Every(cfg.Search.Delay()), 1)

		var enriched, aged int
		for i := range businesses {
			b := &businesses[i]
			var obs []model.Observation

			if emp := employees.Estimate(b.Industry); emp.Known {
				revenue := enrich.RevenueFromEmployees(emp, multipliers)
				obs = append(obs,
					model.Observation{
						BusinessID: b.ID,
						Field:      model.FieldEmployeeRange,
						Value:      emp.String(),
						Confidence: cfg.Enrich.KeywordConfidence,
						Source:     sourceKeywordRule,
					},
					model.Observation{
						BusinessID: b.ID,
						Field:      model.FieldRevenueRange,
						Value:      enrich.FormatRevenueRange(revenue),
						Confidence: cfg.Enrich.KeywordConfidence,
						Source:     sourceKeywordRule,
					},
				)
			}

			if domainAge != nil {
				if website := bestWebsite(ctx, st, b); website != "" {
					if err := limiter.Wait(ctx); err != nil {
						return eris.Wrap(err, "enrich wait")
					}
					years, confidence := domainAge.YearsInBusiness(ctx, website)
					if years != model.Unknown {
						obs = append(obs, model.Observation{
							BusinessID: b.ID,
							Field:      model.FieldYearsInBusiness,
							Value:      years,
							Confidence: confidence,
							Source:     sourceDomainAge,
						})
						aged++
					}
				}
			}

			if len(obs) == 0 {
				continue
			}
			if _, err := st.RecordObservations(ctx, obs); err != nil {
				return eris.Wrapf(err, "record observations for %q", b.Name)
			}
			enriched++
		}

		zap.L().Info("enrichment complete",
			zap.Int("businesses", len(businesses)),
			zap.Int("enriched", enriched),
			zap.Int("domain_ages", aged),
		)
		return nil
	},
}

// bestWebsite prefers the highest-confidence website observation, falling back
// to the business row's own value.
func bestWebsite(ctx context.Context, st store.Store, b *model.BusinessRecord) string {
	obs, err := st.BestValueFor(ctx, b.ID, model.FieldWebsite)
	if err != nil {
		if !eris.Is(err, store.ErrNoObservation) {
			zap.L().Warn("best website lookup failed",
				zap.String("business", b.ID),
				zap.Error(err))
		}
		return b.Website
	}
	return obs.Value
}

func init() {
	f := enrichCmd.Flags()
	f.StringVar(&enrichSource, "source", "", "only enrich records from this source")
	f.IntVar(&enrichLimit, "limit", 0, "max records to enrich (0 = all)")
	f.BoolVar(&enrichSkipDomain, "skip-domain-age", false, "skip RDAP domain age lookups")
	rootCmd.AddCommand(enrichCmd)
}
