// Package keystore implementa el almacenamiento de API keys.
//
// Hay dos clases de credenciales: la master key (configurada por env,
// nunca persistida) y las consumer keys (generadas por el servicio y
// persistidas en un archivo JSON). El store se inyecta a los handlers;
// no hay singleton ambiental, lo que permite usar un MemStore en tests.
package keystore

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"
)

// ErrStorage indica que la persistencia del store falló (disco lleno,
// permisos, etc). Una creación que falla con ErrStorage NO deja la key
// registrada: el append en memoria se revierte.
var ErrStorage = errors.New("keystore: persist failed")

// Record es una consumer key completa, incluyendo el secreto.
// El plaintext de Key se devuelve al caller UNA sola vez, al crearla.
type Record struct {
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Entry es la vista pública de una consumer key: nunca incluye el secreto.
type Entry struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Validation es el resultado de validar una credencial presentada.
type Validation struct {
	IsMaster   bool
	IsConsumer bool
	Record     *Record // solo si IsConsumer
}

// OK indica si la credencial es válida (master o consumer).
func (v Validation) OK() bool { return v.IsMaster || v.IsConsumer }

// Store define las operaciones del almacén de keys.
type Store interface {
	// Validate compara la credencial presentada contra la master key y
	// las consumer keys. Una master key no configurada nunca matchea.
	Validate(presented string) Validation

	// Create genera una consumer key nueva, la persiste y la retorna
	// con el plaintext incluido (única vez que se expone).
	Create(name string) (Record, error)

	// List retorna las consumer keys sin material de secreto.
	List() []Entry
}

// newKey genera una key opaca URL-safe con 256 bits de entropía.
func newKey() string {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand no falla en la práctica; si falla, no hay nada
		// razonable que hacer más que abortar.
		panic("keystore: crypto/rand unavailable: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(b[:])
}
