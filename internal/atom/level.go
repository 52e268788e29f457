package atom

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const orbitalLetters = "SPDFGHIK"

// Level labels a fine-structure level n l_j.
type Level struct {
	N int
	L int
	J float64
}

func (lv Level) String() string {
	letter := "?"
	if lv.L >= 0 && lv.L < len(orbitalLetters) {
		letter = string(orbitalLetters[lv.L])
	}
	return fmt.Sprintf("%d%s%d/2", lv.N, letter, int(math.Round(2*lv.J)))
}

// ParseLevel reads labels such as "47D5/2" or "6s1/2".
func ParseLevel(s string) (Level, error) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(s) {
		return Level{}, fmt.Errorf("parse level %q: %w", s, ErrUnknownLevel)
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return Level{}, fmt.Errorf("parse level %q: %w", s, err)
	}
	l := strings.IndexByte(orbitalLetters, strings.ToUpper(s[i : i+1])[0])
	if l < 0 {
		return Level{}, fmt.Errorf("parse level %q: orbital %q: %w", s, s[i:i+1], ErrUnknownLevel)
	}

	num, den, ok := strings.Cut(s[i+1:], "/")
	if !ok || den != "2" {
		return Level{}, fmt.Errorf("parse level %q: j must be written as k/2: %w", s, ErrUnknownLevel)
	}
	twoJ, err := strconv.Atoi(num)
	if err != nil {
		return Level{}, fmt.Errorf("parse level %q: %w", s, err)
	}
	return Level{N: n, L: l, J: float64(twoJ) / 2}, nil
}

// MarshalText writes the spectroscopic label, so config files can say
// "47D5/2".
func (lv Level) MarshalText() ([]byte, error) {
	return []byte(lv.String()), nil
}

func (lv *Level) UnmarshalText(b []byte) error {
	parsed, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*lv = parsed
	return nil
}

func (lv Level) key() levelKey {
	return levelKey{n: lv.N, l: lv.L, twoJ: int(math.Round(2 * lv.J))}
}

type levelKey struct {
	n, l, twoJ int
}

func (k levelKey) less(o levelKey) bool {
	if k.n != o.n {
		return k.n < o.n
	}
	if k.l != o.l {
		return k.l < o.l
	}
	return k.twoJ < o.twoJ
}

// pairKey is an unordered pair of levels.
type pairKey [2]levelKey

func pair(x, y Level) pairKey {
	kx, ky := x.key(), y.key()
	if ky.less(kx) {
		kx, ky = ky, kx
	}
	return pairKey{kx, ky}
}

type fineKey struct {
	l, twoJ int
}
