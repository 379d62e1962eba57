package ranking

// MemoryStore keeps all entity state in process. The two throwaway seeding
// passes run on it so their intermediate results never touch the real store;
// tests use it the same way.
type MemoryStore struct {
	stats    map[EntityKind]map[string]*Stats
	teamRace map[string]*TeamRaceStats
	history  []HistoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		stats:    make(map[EntityKind]map[string]*Stats),
		teamRace: make(map[string]*TeamRaceStats),
	}
}

func (m *MemoryStore) GetOrCreate(kind EntityKind, key string, seed float64) (*Stats, error) {
	byKey, ok := m.stats[kind]
	if !ok {
		byKey = make(map[string]*Stats)
		m.stats[kind] = byKey
	}
	if s, ok := byKey[key]; ok {
		return s, nil
	}
	s := &Stats{Kind: kind, Key: key, Rating: seed}
	byKey[key] = s
	return s, nil
}

// Save is a no-op: GetOrCreate hands out live pointers.
func (m *MemoryStore) Save(stats *Stats) error {
	return nil
}

func (m *MemoryStore) Ratings(kind EntityKind) ([]float64, error) {
	if kind == KindTeamRaceMatchup {
		ratings := make([]float64, 0, len(m.teamRace)*2)
		for _, t := range m.teamRace {
			ratings = append(ratings, t.Side1.Rating, t.Side2.Rating)
		}
		return ratings, nil
	}
	byKey := m.stats[kind]
	ratings := make([]float64, 0, len(byKey))
	for _, s := range byKey {
		ratings = append(ratings, s.Rating)
	}
	return ratings, nil
}

func (m *MemoryStore) GetOrCreateTeamRace(key, combo1, combo2 string, seed1, seed2 float64) (*TeamRaceStats, error) {
	if t, ok := m.teamRace[key]; ok {
		return t, nil
	}
	t := &TeamRaceStats{
		Key:    key,
		Combo1: combo1,
		Combo2: combo2,
		Side1:  Stats{Kind: KindTeamRaceMatchup, Key: TeamRaceSideKey(key, combo1), Rating: seed1},
		Side2:  Stats{Kind: KindTeamRaceMatchup, Key: TeamRaceSideKey(key, combo2), Rating: seed2},
	}
	m.teamRace[key] = t
	return t, nil
}

// SaveTeamRace is a no-op for the same reason as Save.
func (m *MemoryStore) SaveTeamRace(stats *TeamRaceStats) error {
	return nil
}

func (m *MemoryStore) AppendHistory(entry HistoryEntry) error {
	m.history = append(m.history, entry)
	return nil
}

// Get looks up one entity without creating it.
func (m *MemoryStore) Get(kind EntityKind, key string) (*Stats, bool) {
	s, ok := m.stats[kind][key]
	return s, ok
}

// TeamRace looks up one combo pairing without creating it.
func (m *MemoryStore) TeamRace(key string) (*TeamRaceStats, bool) {
	t, ok := m.teamRace[key]
	return t, ok
}

// All returns every entity of one kind.
func (m *MemoryStore) All(kind EntityKind) []*Stats {
	byKey := m.stats[kind]
	out := make([]*Stats, 0, len(byKey))
	for _, s := range byKey {
		out = append(out, s)
	}
	return out
}

// History returns the audit rows appended so far.
func (m *MemoryStore) History() []HistoryEntry {
	return m.history
}

// SeedTable snapshots every entity's final rating, keyed the way the seeded
// forward pass looks them up.
func (m *MemoryStore) SeedTable() *SeedTable {
	t := NewSeedTable()
	for kind, byKey := range m.stats {
		for key, s := range byKey {
			t.Set(kind, key, s.Rating)
		}
	}
	for _, tr := range m.teamRace {
		t.Set(KindTeamRaceMatchup, tr.Side1.Key, tr.Side1.Rating)
		t.Set(KindTeamRaceMatchup, tr.Side2.Key, tr.Side2.Rating)
	}
	return t
}
