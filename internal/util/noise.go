package util

import (
	"github.com/aquilax/go-perlin"
)

// NoiseField — детерминированное 2D поле когерентного шума.
// Контракт: одинаковый вход всегда даёт одинаковый выход, значения
// непрерывны и ограничены диапазоном [-1, 1].
type NoiseField struct {
	perlin *perlin.Perlin
	seed   int64
}

// NewNoiseField создаёт поле шума Перлина с указанным сидом
func NewNoiseField(seed int64) *NoiseField {
	alpha := 2.0  // Сглаживание шума
	beta := 2.0   // Частота шума
	n := int32(3) // Количество октав
	return &NoiseField{
		perlin: perlin.NewPerlin(alpha, beta, n, seed),
		seed:   seed,
	}
}

// Seed возвращает сид, с которым создано поле
func (nf *NoiseField) Seed() int64 {
	return nf.seed
}

// At возвращает значение шума в точке (x, z) в диапазоне [-1, 1]
func (nf *NoiseField) At(x, z float64) float64 {
	return nf.perlin.Noise2D(x, z)
}

// At01 возвращает значение шума, приведённое к диапазону [0, 1]
func (nf *NoiseField) At01(x, z float64) float64 {
	return (nf.perlin.Noise2D(x, z) + 1.0) / 2.0
}
