package wesim

import (
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/gridlington/datahub/metrics"
	"github.com/gridlington/datahub/model"
	"github.com/gridlington/datahub/utils/promise"
)

// Payload holds the four normalized tables served on GET /wesim.
type Payload struct {
	Capacity               *model.Table `json:"Capacity"`
	Regions                *model.Table `json:"Regions"`
	InterconnectorCapacity *model.Table `json:"Interconnector Capacity"`
	Interconnectors        *model.Table `json:"Interconnectors"`
}

// Service computes the Wesim tables from the source workbook on first access
// and caches them for the process lifetime. Concurrent first reads share one
// load; a failed load is not cached. Reset drops the cache.
type Service struct {
	path string

	mtx  sync.Mutex
	load *promise.Promise[*Payload]
}

func NewService(path string) *Service {
	return &Service{path: path}
}

func (s *Service) Get() (*Payload, error) {
	s.mtx.Lock()
	p := s.load
	if p == nil {
		p = promise.New[*Payload]()
		s.load = p
		go s.fill(p)
	}
	s.mtx.Unlock()
	return p.Get()
}

func (s *Service) Reset() {
	s.mtx.Lock()
	s.load = nil
	s.mtx.Unlock()
}

func (s *Service) fill(p *promise.Promise[*Payload]) {
	res, err := s.build()
	if err != nil {
		log.Printf("wesim load failed: %v", err)
		s.mtx.Lock()
		s.load = nil
		s.mtx.Unlock()
	} else {
		metrics.WesimLoads.Inc()
	}
	p.Done(res, err)
}

func (s *Service) build() (*Payload, error) {
	src, err := ReadSource(s.path)
	if err != nil {
		return nil, err
	}
	return Build(src)
}

// Build reshapes a raw source into the served payload. The three regional
// sheets pivot independently, so they run concurrently before the outer
// merge on (hour, code).
func Build(src *Source) (*Payload, error) {
	capacity, err := StructureCapacity(src.Capacity)
	if err != nil {
		return nil, err
	}
	flows, err := StructureWide(src.Flows)
	if err != nil {
		return nil, err
	}

	longs := make([]*Long, len(src.Regions))
	var g errgroup.Group
	for i, frame := range src.Regions {
		i, frame := i, frame
		g.Go(func() error {
			long, err := StructureWide(frame)
			if err != nil {
				return err
			}
			longs[i] = long
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Payload{
		Capacity:               capacity,
		Regions:                MergeLong(longs).Table(),
		InterconnectorCapacity: src.FlowCapacity,
		Interconnectors:        flows.Table(),
	}, nil
}
