package bench

import (
	"iter"
	"math/rand/v2"
	"time"
)

// Anchor is the first record of every generated dataset.
var Anchor = Employee{
	FirstName:   "Alice",
	LastName:    "Smith",
	DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	DateVested:  time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
}

// DateWindow bounds the spread of derived dates, in days.
const DateWindow = 1000

// MutationDays is how far Mutate moves both dates.
const MutationDays = -7

var firstNames = []string{
	"Alice", "Bob", "Carol", "Dmitri", "Emma", "Farid", "Grace", "Hiro",
	"Ingrid", "José", "Kwame", "Léa", "Mateo", "Nadia", "Olivier", "Priya",
	"Quentin", "Renée", "Sofía", "Tomasz", "Ulla", "Viktor", "Wen", "Xóchitl",
	"Yusuf", "Zoë", "Anneliese-Marguerite", "Bartholomew", "Chloé", "Søren",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller",
	"Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez",
	"Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin",
	"Lee", "Perez", "Thompson", "White", "Harris", "Sanchez", "Clark",
	"Ramirez", "Lewis", "Robinson", "Nakamura", "OConnor", "Kowalski",
	"Vanderbilt-Montgomery", "Papadopoulos",
}

// Generator produces synthetic employees. A zero Seed draws a fresh seed
// for every sequence; otherwise sequences are reproducible.
type Generator struct {
	Seed uint64
}

func NewGenerator(seed uint64) *Generator {
	return &Generator{Seed: seed}
}

// Generate yields exactly count employees, starting with Anchor. Each range
// over the returned sequence starts from scratch.
func (g *Generator) Generate(count int) iter.Seq[Employee] {
	return func(yield func(Employee) bool) {
		if count <= 0 {
			return
		}
		if !yield(Anchor) {
			return
		}
		rng := g.rand()
		for i := 1; i < count; i++ {
			offset := i % DateWindow
			e := Employee{
				FirstName:   pickName(rng, firstNames),
				LastName:    pickName(rng, lastNames),
				DateOfBirth: Anchor.DateOfBirth.AddDate(0, 0, offset),
				DateVested:  Anchor.DateVested.AddDate(1, 0, offset),
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Mutate yields a modified copy of every row: fresh names, both dates a week
// earlier, ID untouched.
func (g *Generator) Mutate(rows iter.Seq[Employee]) iter.Seq[Employee] {
	return func(yield func(Employee) bool) {
		rng := g.rand()
		for row := range rows {
			row.FirstName = pickName(rng, firstNames)
			row.LastName = pickName(rng, lastNames)
			row.DateOfBirth = row.DateOfBirth.AddDate(0, 0, MutationDays)
			row.DateVested = row.DateVested.AddDate(0, 0, MutationDays)
			if !yield(row) {
				return
			}
		}
	}
}

func (g *Generator) rand() *rand.Rand {
	seed := g.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func pickName(rng *rand.Rand, pool []string) string {
	return Truncate(pool[rng.IntN(len(pool))], MaxNameLength)
}

// Truncate cuts s to at most n characters.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// NameLen reports the length of a name in characters.
func NameLen(s string) int {
	return len([]rune(s))
}
