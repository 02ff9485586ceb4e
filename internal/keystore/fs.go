package keystore

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/dropDatabas3/fileconv/internal/observability/logger"
	"github.com/dropDatabas3/fileconv/internal/util"
	"github.com/dropDatabas3/fileconv/internal/util/atomicwrite"
)

// fileLayout es el shape persistido: {"keys":[{key,name,created_at}...]}
type fileLayout struct {
	Keys []Record `json:"keys"`
}

// FSStore persiste consumer keys en un único archivo JSON.
//
// Toda mutación es read-modify-write bajo lock + reescritura atómica del
// archivo completo (atomicwrite), así escrituras concurrentes no pierden
// keys ni dejan el archivo truncado. Las lecturas toman RLock y ven
// siempre un snapshot consistente.
type FSStore struct {
	path   string
	master string // "" = sin master key configurada

	mu   sync.RWMutex
	keys map[string]Record
}

// NewFSStore crea el store cargando el archivo en path si existe.
// Un archivo ausente arranca vacío; un archivo corrupto también, con un
// warning en el log (elegimos fail-open: el servicio sigue levantando y
// las keys viejas se pierden hasta restaurar el archivo).
func NewFSStore(path, masterKey string) *FSStore {
	s := &FSStore{
		path:   path,
		master: masterKey,
		keys:   make(map[string]Record),
	}
	s.load()
	return s
}

func (s *FSStore) load() {
	log := logger.Named("keystore")

	b, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("keys file unreadable, starting empty",
				logger.String("path", s.path), logger.Err(err))
		}
		return
	}

	var layout fileLayout
	if err := json.Unmarshal(b, &layout); err != nil {
		log.Warn("keys file malformed, starting empty",
			logger.String("path", s.path), logger.Err(err))
		return
	}
	for _, rec := range layout.Keys {
		if rec.Key == "" {
			continue
		}
		s.keys[rec.Key] = rec
	}
	log.Info("consumer keys loaded",
		logger.String("path", s.path), logger.Count(len(s.keys)))
}

// Validate implementa Store.
func (s *FSStore) Validate(presented string) Validation {
	if presented == "" {
		return Validation{}
	}
	if s.master != "" && presented == s.master {
		return Validation{IsMaster: true}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.keys[presented]; ok {
		return Validation{IsConsumer: true, Record: &rec}
	}
	return Validation{}
}

// Create implementa Store. La key queda registrada solo si el archivo
// se pudo reescribir; ante un fallo de persistencia se revierte el
// append en memoria y se retorna ErrStorage.
func (s *FSStore) Create(name string) (Record, error) {
	rec := Record{
		Key:       newKey(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.keys[rec.Key] = rec
	if err := s.persistLocked(); err != nil {
		delete(s.keys, rec.Key)
		return Record{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	logger.Named("keystore").Info("consumer key created",
		logger.KeyName(rec.Name), logger.String("key", util.MaskKey(rec.Key)))
	return rec, nil
}

// List implementa Store. Orden estable por fecha de creación.
func (s *FSStore) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, len(s.keys))
	for _, rec := range s.keys {
		out = append(out, Entry{Name: rec.Name, CreatedAt: rec.CreatedAt})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Name < out[j].Name
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// persistLocked reescribe el archivo completo. Caller sostiene s.mu.
func (s *FSStore) persistLocked() error {
	layout := fileLayout{Keys: make([]Record, 0, len(s.keys))}
	for _, rec := range s.keys {
		layout.Keys = append(layout.Keys, rec)
	}
	// orden estable en disco para diffs legibles
	sort.Slice(layout.Keys, func(i, j int) bool {
		if layout.Keys[i].CreatedAt.Equal(layout.Keys[j].CreatedAt) {
			return layout.Keys[i].Key < layout.Keys[j].Key
		}
		return layout.Keys[i].CreatedAt.Before(layout.Keys[j].CreatedAt)
	})

	b, err := json.MarshalIndent(layout, "", "  ")
	if err != nil {
		return err
	}
	return atomicwrite.AtomicWriteFile(s.path, b, 0o600)
}
