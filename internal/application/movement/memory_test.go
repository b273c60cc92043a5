package movement_test

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/obracore/inventario-obras/internal/domain/entity"
	"github.com/obracore/inventario-obras/internal/domain/repository"
)

// Fakes en memoria para los tests de casos de uso. El fakeTxRunner simula la
// atomicidad real: clona el estado antes de ejecutar el callback y lo
// restaura si este falla, de modo que un request rechazado no deja rastro.

type pairKey struct{ siteID, materialID string }

type memLedger struct {
	entries []*entity.LedgerEntry
	nextSeq int64
}

func (m *memLedger) Append(e *entity.LedgerEntry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	m.nextSeq++
	e.Seq = m.nextSeq
	cp := *e
	m.entries = append(m.entries, &cp)
	return e.ID, nil
}

func (m *memLedger) ListByPair(siteID, materialID string, limit, offset int) ([]*entity.LedgerEntry, error) {
	all, _ := m.ListAllByPair(siteID, materialID)
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (m *memLedger) ListAllByPair(siteID, materialID string) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	for _, e := range m.entries {
		if e.SiteID == siteID && e.MaterialID == materialID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memLedger) SiteHasEntries(siteID string) (bool, error) {
	for _, e := range m.entries {
		if e.SiteID == siteID {
			return true, nil
		}
	}
	return false, nil
}

type memBalances struct {
	rows map[pairKey]*entity.MaterialBalance
}

func (m *memBalances) Get(siteID, materialID string) (*entity.MaterialBalance, error) {
	b, ok := m.rows[pairKey{siteID, materialID}]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (m *memBalances) GetForUpdate(siteID, materialID string) (*entity.MaterialBalance, error) {
	return m.Get(siteID, materialID)
}

func (m *memBalances) Upsert(b *entity.MaterialBalance) error {
	cp := *b
	m.rows[pairKey{b.SiteID, b.MaterialID}] = &cp
	return nil
}

func (m *memBalances) ListBySite(siteID string, limit, offset int) ([]*entity.MaterialBalance, error) {
	var out []*entity.MaterialBalance
	for _, b := range m.rows {
		if b.SiteID == siteID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memDocs struct {
	docs  map[string]*entity.MovementDocument
	lines []*entity.MovementLine
}

func (m *memDocs) CreateDocument(d *entity.MovementDocument) error {
	cp := *d
	m.docs[d.ID] = &cp
	return nil
}

func (m *memDocs) CreateLine(l *entity.MovementLine) error {
	cp := *l
	m.lines = append(m.lines, &cp)
	return nil
}

func (m *memDocs) UpdateTotal(documentID string, total decimal.Decimal) error {
	if d, ok := m.docs[documentID]; ok {
		d.TotalAmount = total
	}
	return nil
}

func (m *memDocs) GetByID(id string) (*entity.MovementDocument, []*entity.MovementLine, error) {
	d, ok := m.docs[id]
	if !ok {
		return nil, nil, nil
	}
	cp := *d
	var ls []*entity.MovementLine
	for _, l := range m.lines {
		if l.DocumentID == id {
			lcp := *l
			ls = append(ls, &lcp)
		}
	}
	return &cp, ls, nil
}

type memSeq struct {
	counters map[string]int
}

func (m *memSeq) Next(documentType string) (string, error) {
	m.counters[documentType]++
	return fmt.Sprintf("%s-%04d", documentType, m.counters[documentType]), nil
}

type memSites struct {
	rows map[string]*entity.Site
}

func (m *memSites) Create(s *entity.Site) error {
	cp := *s
	m.rows[s.ID] = &cp
	return nil
}

func (m *memSites) GetByID(id string) (*entity.Site, error) {
	s, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *memSites) List(limit, offset int) ([]*entity.Site, error) { return nil, nil }

type memMaterials struct {
	rows map[string]*entity.Material
}

func (m *memMaterials) Create(mat *entity.Material) error {
	cp := *mat
	m.rows[mat.ID] = &cp
	return nil
}

func (m *memMaterials) GetByID(id string) (*entity.Material, error) {
	mat, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *mat
	return &cp, nil
}

func (m *memMaterials) List(limit, offset int) ([]*entity.Material, error) { return nil, nil }

// memStore agrupa los fakes que viven "dentro" de la transacción.
type memStore struct {
	ledger    *memLedger
	balances  *memBalances
	docs      *memDocs
	seqs      *memSeq
	sites     *memSites
	materials *memMaterials
}

func newMemStore() *memStore {
	return &memStore{
		ledger:    &memLedger{},
		balances:  &memBalances{rows: make(map[pairKey]*entity.MaterialBalance)},
		docs:      &memDocs{docs: make(map[string]*entity.MovementDocument)},
		seqs:      &memSeq{counters: make(map[string]int)},
		sites:     &memSites{rows: make(map[string]*entity.Site)},
		materials: &memMaterials{rows: make(map[string]*entity.Material)},
	}
}

func (s *memStore) addSite(id string) {
	_ = s.sites.Create(&entity.Site{ID: id, Code: id, Name: "obra " + id, Active: true, CreatedAt: time.Now()})
}

func (s *memStore) addMaterial(id string) {
	_ = s.materials.Create(&entity.Material{ID: id, Code: id, Name: "material " + id, Unit: "und", CreatedAt: time.Now()})
}

type memSnapshot struct {
	entries  []*entity.LedgerEntry
	nextSeq  int64
	balances map[pairKey]*entity.MaterialBalance
	docs     map[string]*entity.MovementDocument
	lines    []*entity.MovementLine
	counters map[string]int
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		entries:  append([]*entity.LedgerEntry(nil), s.ledger.entries...),
		nextSeq:  s.ledger.nextSeq,
		balances: make(map[pairKey]*entity.MaterialBalance, len(s.balances.rows)),
		docs:     make(map[string]*entity.MovementDocument, len(s.docs.docs)),
		lines:    append([]*entity.MovementLine(nil), s.docs.lines...),
		counters: make(map[string]int, len(s.seqs.counters)),
	}
	for k, v := range s.balances.rows {
		cp := *v
		snap.balances[k] = &cp
	}
	for k, v := range s.docs.docs {
		cp := *v
		snap.docs[k] = &cp
	}
	for k, v := range s.seqs.counters {
		snap.counters[k] = v
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.ledger.entries = snap.entries
	s.ledger.nextSeq = snap.nextSeq
	s.balances.rows = snap.balances
	s.docs.docs = snap.docs
	s.docs.lines = snap.lines
	s.seqs.counters = snap.counters
}

// fakeTxRunner ejecuta el callback sobre los fakes y revierte el estado si
// falla, imitando el commit/rollback del runner real.
type fakeTxRunner struct {
	store *memStore
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	ledgerRepo repository.LedgerRepository,
	balanceRepo repository.BalanceRepository,
	docRepo repository.DocumentRepository,
	seqRepo repository.SequenceRepository,
) error) error {
	snap := r.store.snapshot()
	if err := fn(r.store.ledger, r.store.balances, r.store.docs, r.store.seqs); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}
