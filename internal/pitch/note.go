package pitch

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NoteNames lists the pitch classes in chromatic order, starting at C.
var NoteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// flatNames maps flat spellings onto their sharp equivalents.
var flatNames = map[string]string{
	"Db": "C#",
	"Eb": "D#",
	"Gb": "F#",
	"Ab": "G#",
	"Bb": "A#",
}

// Note represents a musical note
type Note struct {
	Index     int     // Semitone number, A4 = 69 with the default reference
	Name      string  // e.g., "A", "A#", "B"
	Octave    int     // e.g., 4 for middle C (C4)
	Frequency float64 // Frequency in Hz that was mapped to this note
	Cents     float64 // Cents deviation from the note (-50 to +50)
}

// String returns the note in scientific pitch notation, e.g. "C#4".
func (n Note) String() string {
	return n.Name + strconv.Itoa(n.Octave)
}

// Mapper quantizes frequencies to notes.
//
// OctaveCorrection divides every frequency before mapping. The shipped value
// of 2 places a 440 Hz tone on A3 rather than A4; it compensates for the
// octave the detector tends to report above the fundamental with the
// default window and threshold. Set it to 1 for a plain mapping.
type Mapper struct {
	ReferenceFrequency float64
	ReferenceIndex     int
	OctaveCorrection   float64
}

// DefaultMapper returns the mapper built from DefaultConfig.
func DefaultMapper() Mapper {
	return DefaultConfig().Mapper()
}

// Validate reports whether m can map frequencies. The zero Mapper is not
// usable; start from DefaultMapper.
func (m Mapper) Validate() error {
	if !isPositive(m.ReferenceFrequency) {
		return fmt.Errorf("%w: reference frequency %v", ErrInvalidConfig, m.ReferenceFrequency)
	}
	if !isPositive(m.OctaveCorrection) {
		return fmt.Errorf("%w: octave correction %v", ErrInvalidConfig, m.OctaveCorrection)
	}
	return nil
}

// semitones returns the unrounded note number of f.
func (m Mapper) semitones(f float64) (float64, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	if !isPositive(f) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidFrequency, f)
	}
	corrected := f / m.OctaveCorrection
	return 12*math.Log2(corrected/m.ReferenceFrequency) + float64(m.ReferenceIndex), nil
}

// FrequencyToNote returns the note index nearest to f. Halves round up.
func (m Mapper) FrequencyToNote(f float64) (int, error) {
	s, err := m.semitones(f)
	if err != nil {
		return 0, err
	}
	return int(math.Floor(s + 0.5)), nil
}

// NoteFrequency returns the frequency that maps exactly onto index,
// including the octave correction. It is NaN for an invalid mapper.
func (m Mapper) NoteFrequency(index int) float64 {
	if m.Validate() != nil {
		return math.NaN()
	}
	return m.OctaveCorrection * m.ReferenceFrequency * math.Exp2(float64(index-m.ReferenceIndex)/12)
}

// Cents returns the deviation of f from index in cents. It is NaN when f
// is not a positive frequency or m is invalid.
func (m Mapper) Cents(f float64, index int) float64 {
	if !isPositive(f) {
		return math.NaN()
	}
	return 1200 * math.Log2(f/m.NoteFrequency(index))
}

// Note maps f onto a fully described note.
func (m Mapper) Note(f float64) (Note, error) {
	index, err := m.FrequencyToNote(f)
	if err != nil {
		return Note{}, err
	}
	name, octave := NoteIndexToName(index)
	return Note{
		Index:     index,
		Name:      name,
		Octave:    octave,
		Frequency: f,
		Cents:     m.Cents(f, index),
	}, nil
}

// NoteIndexToName returns the pitch class and octave of a note index.
// It is defined for every integer, including negative ones.
func NoteIndexToName(index int) (string, int) {
	pc := index % 12
	if pc < 0 {
		pc += 12
	}
	return NoteNames[pc], floorDiv(index, 12) - 1
}

// NoteIndexFromName is the inverse of NoteIndexToName.
func NoteIndexFromName(name string, octave int) (int, error) {
	if sharp, ok := flatNames[name]; ok {
		name = sharp
	}
	for pc, n := range NoteNames {
		if n == name {
			return (octave+1)*12 + pc, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown pitch class %q", ErrInvalidNote, name)
}

// ParseNote parses scientific pitch notation such as "A4", "C#3", "Bb2" or
// "B-1" into a note index.
func ParseNote(s string) (int, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNote, s)
	}

	split := 1
	if s[1] == '#' || s[1] == 'b' {
		split = 2
	}
	name := strings.ToUpper(s[:1]) + s[1:split]

	octave, err := strconv.Atoi(s[split:])
	if err != nil {
		return 0, fmt.Errorf("%w: %q: bad octave", ErrInvalidNote, s)
	}

	return NoteIndexFromName(name, octave)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
