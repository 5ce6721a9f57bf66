package service

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nholding/kundli-view/internal/apperrors"
	"github.com/nholding/kundli-view/internal/dasha/domain"
)

// ErrNotInitialized is returned by queries made before Initialize succeeded.
var ErrNotInitialized = errors.New("dasha service not initialised")

// DashaService owns the resolved dasha tree of one chart.
type DashaService struct {
	tree *domain.Tree
	log  zerolog.Logger
}

// NewDashaService returns an empty service. Call Initialize before querying.
func NewDashaService(log zerolog.Logger) *DashaService {
	return &DashaService{
		log: log.With().Str("component", "dasha").Logger(),
	}
}

// Initialize builds the tree from the engine's flat lists and validates it.
//
// It establishes a hard contract:
//
//	If Initialize returns nil:
//	   - every child references an existing parent
//	   - every key is unique
//	   - every level tiles its parent without gaps or overlaps
//
//	If Initialize returns an error (always an IntegrityError):
//	   - the previous tree, if any, is kept
//	   - the dasha view must not be rendered from this chart
//
// WHEN TO CALL:
//
//   - EXACTLY ONCE per generated chart, before any ActiveChain query
func (s *DashaService) Initialize(mahas []domain.Mahadasha, antars []domain.Antardasha, pratys []domain.Pratyantardasha) error {
	tree, err := domain.BuildTree(mahas, antars, pratys)
	if err != nil {
		s.log.Error().Err(err).Msg("dasha lists reference missing or duplicate parents")
		return fmt.Errorf("failed to build dasha tree: %w", err)
	}

	if errs := domain.ValidateTiling(tree); len(errs) > 0 {
		for _, e := range errs {
			s.log.Warn().Err(e).Msg("dasha tiling violation")
		}
		return fmt.Errorf("dasha timeline validation failed: %w", apperrors.Integrity(errs))
	}

	s.tree = tree

	counts := tree.Counts()
	s.log.Debug().
		Int("mahadashas", counts[domain.MahaLevel]).
		Int("antardashas", counts[domain.AntarLevel]).
		Int("pratyantardashas", counts[domain.PratyLevel]).
		Msg("dasha tree resolved")

	return nil
}

// Tree returns the resolved tree, or nil before Initialize succeeded.
func (s *DashaService) Tree() *domain.Tree {
	return s.tree
}

// ActiveChain returns the periods active on ref, one per level.
func (s *DashaService) ActiveChain(ref string) (domain.Chain, error) {
	if s.tree == nil {
		return domain.Chain{}, ErrNotInitialized
	}

	chain, err := domain.ActiveChain(s.tree, ref)
	if err != nil {
		s.log.Error().Err(err).Str("ref", ref).Msg("ambiguous active dasha")
		return chain, err
	}
	return chain, nil
}

// Leaves returns every Pratyantardasha of the named Mahadasha.
func (s *DashaService) Leaves(mahaLabel string) ([]domain.Pratyantardasha, error) {
	if s.tree == nil {
		return nil, ErrNotInitialized
	}
	return s.tree.Leaves(mahaLabel), nil
}
