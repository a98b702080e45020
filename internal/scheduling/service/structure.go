package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"studio_backend/internal/scheduling/domain"
	"studio_backend/internal/scheduling/repository"
)

// Structure is the computed scheduling view of one job.
type Structure struct {
	JobID     uuid.UUID
	Name      string
	EventDate domain.Date
	// CatalogLoaded is false when the catalog could not be fetched and every
	// task was placed in the sentinel section.
	CatalogLoaded bool
	Today         domain.Date
	Token         uint64
	Rows          []domain.Row
	Stats         domain.JobStats
	Unclassified  []domain.Task
}

// Blocks re-nests the rows into section and stage blocks.
func (s *Structure) Blocks() []domain.SectionBlock {
	return domain.GroupRowsIntoBlocks(s.Rows)
}

// StructureOptions selects the optional rows and the reference date.
type StructureOptions struct {
	Rows domain.RowOptions
	// Today overrides the studio date used for delay detection.
	Today *domain.Date
}

const structureLoadTimeout = 30 * time.Second

type structureInputs struct {
	sections      []domain.Section
	catalogLoaded bool
	detail        repository.JobDetail
	custom        []domain.CustomCategory
}

// GetStructure returns the scheduler rows, stats and unclassified tasks of a
// job. Results are memoized until the job, its studio or the date changes.
func (s *Service) GetStructure(ctx context.Context, studioID, jobID uuid.UUID, opts StructureOptions) (*Structure, error) {
	today := s.Today()
	if opts.Today != nil && opts.Today.IsSet() {
		today = *opts.Today
	}

	jobGen, studioGen := s.generations.snapshot(studioID, jobID)
	key := structureKey{
		studioID:  studioID,
		jobID:     jobID,
		jobGen:    jobGen,
		studioGen: studioGen,
		today:     today,
		options:   opts.Rows,
	}
	if cached, ok := s.cache.get(key); ok {
		return cached, nil
	}

	// The load is shared by every caller of the key, so it runs detached from
	// the caller that started it. Each caller still gives up on its own ctx.
	ch := s.loads.DoChan(key.String(), func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), structureLoadTimeout)
		defer cancel()

		inputs, err := s.loadInputs(loadCtx, studioID, jobID)
		if err != nil {
			return nil, err
		}
		structure := buildStructure(inputs, today, opts.Rows)
		structure.Token = token(jobGen, studioGen)

		// A mutation that landed during the load makes this result stale
		// already; serve it once but do not memoize it.
		if j, st := s.generations.snapshot(studioID, jobID); inputs.catalogLoaded && j == jobGen && st == studioGen {
			s.cache.put(key, structure)
		}
		return structure, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Structure), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Service) loadInputs(ctx context.Context, studioID, jobID uuid.UUID) (structureInputs, error) {
	var in structureInputs
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sections, err := s.catalog.ListSections(gctx, studioID)
		if err != nil {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			s.log.WithContext(ctx).Warn("catalog unavailable, building structure without it",
				"studioId", studioID, "jobId", jobID, "error", err)
			return nil
		}
		in.sections = sections
		in.catalogLoaded = true
		return nil
	})
	g.Go(func() error {
		detail, err := s.repo.GetJobDetail(gctx, studioID, jobID)
		if err != nil {
			return err
		}
		in.detail = detail
		return nil
	})
	g.Go(func() error {
		custom, err := s.repo.ListCustomCategories(gctx, studioID)
		if err != nil {
			return fmt.Errorf("load custom categories: %w", err)
		}
		in.custom = custom
		return nil
	})

	if err := g.Wait(); err != nil {
		return structureInputs{}, err
	}
	return in, nil
}

func buildStructure(in structureInputs, today domain.Date, opts domain.RowOptions) *Structure {
	index := domain.NewCatalogIndex(in.sections)
	items := domain.OrderItems(index, in.detail.OrderItems)

	rows := domain.BuildSchedulerRows(domain.BuildInput{
		Catalog:          index,
		Items:            items,
		ManualTasks:      in.detail.ManualTasks,
		KnownStages:      domain.NewStageKeySet(in.detail.StageKeys...),
		CustomCategories: domain.CustomCategoriesByKey(in.custom),
		Options:          opts,
	})

	return &Structure{
		JobID:         in.detail.JobID,
		Name:          in.detail.Name,
		EventDate:     in.detail.EventDate,
		CatalogLoaded: in.catalogLoaded,
		Today:         today,
		Rows:          rows,
		Stats:         domain.ComputeJobStats(in.detail.OrderItems, in.detail.ManualTasks, today),
		Unclassified:  domain.UnclassifiedTasks(rows),
	}
}

// GetFleetStats aggregates progress of every active job of the studio.
func (s *Service) GetFleetStats(ctx context.Context, studioID uuid.UUID) (domain.FleetStats, error) {
	schedules, err := s.repo.ListFleetSchedules(ctx, studioID)
	if err != nil {
		return domain.FleetStats{}, err
	}
	return domain.ComputeFleetStats(schedules, s.Today()), nil
}
