// Package slot runs the daily lucky-number slot machine.
package slot

import (
	"math/rand/v2"
	"slices"

	"github.com/mroth/weightedrand/v2"
)

// DefaultFrames is how many random frames precede the final one.
const DefaultFrames = 16

const (
	reelSize = 6
	maxBall  = 45
)

// consonantWeights roughly follows how often each consonant starts a
// Korean surname, so the spinning reel lands on familiar initials.
var consonantWeights = []weightedrand.Choice[string, uint]{
	{Item: "ㄱ", Weight: 28},
	{Item: "ㄴ", Weight: 3},
	{Item: "ㄷ", Weight: 2},
	{Item: "ㄹ", Weight: 2},
	{Item: "ㅁ", Weight: 3},
	{Item: "ㅂ", Weight: 10},
	{Item: "ㅅ", Weight: 8},
	{Item: "ㅇ", Weight: 24},
	{Item: "ㅈ", Weight: 10},
	{Item: "ㅊ", Weight: 5},
	{Item: "ㅋ", Weight: 1},
	{Item: "ㅌ", Weight: 1},
	{Item: "ㅍ", Weight: 1},
	{Item: "ㅎ", Weight: 6},
}

// Consonants lists every symbol the initial reel can show.
func Consonants() []string {
	out := make([]string, len(consonantWeights))
	for i, c := range consonantWeights {
		out[i] = c.Item
	}
	return out
}

// Frame is one reel position.
type Frame struct {
	Numbers []int  `json:"numbers"`
	Initial string `json:"initial"`
}

// Spin is a full lever pull: the blur frames and where the reels stop.
type Spin struct {
	Frames []Frame `json:"frames"`
	Final  Frame   `json:"final"`
}

// Machine produces spins. It is safe for concurrent use.
type Machine struct {
	frames int
	intn   func(n int) int
	pick   func() string
}

// NewMachine creates a machine. A nil intn uses math/rand/v2.
func NewMachine(intn func(n int) int) *Machine {
	if intn == nil {
		intn = rand.IntN
	}
	chooser, err := weightedrand.NewChooser(consonantWeights...)
	if err != nil {
		// The weight table is static and valid.
		panic(err)
	}
	return &Machine{frames: DefaultFrames, intn: intn, pick: chooser.Pick}
}

// WithFrames overrides the number of blur frames.
func (m *Machine) WithFrames(n int) *Machine {
	if n >= 0 {
		m.frames = n
	}
	return m
}

// Spin returns the blur frames followed by a final frame showing lotto
// and initial. Missing values stop on placeholders.
func (m *Machine) Spin(lotto []int, initial string) Spin {
	spin := Spin{Frames: make([]Frame, 0, m.frames)}
	for i := 0; i < m.frames; i++ {
		nums := make([]int, reelSize)
		for j := range nums {
			nums[j] = m.intn(maxBall) + 1
		}
		spin.Frames = append(spin.Frames, Frame{Numbers: nums, Initial: m.pick()})
	}

	final := Frame{Numbers: []int{1, 2, 3, 4, 5, 6}, Initial: "?"}
	if len(lotto) > 0 {
		final.Numbers = append([]int(nil), lotto...)
	}
	if initial != "" {
		final.Initial = initial
	}
	spin.Final = final
	return spin
}

// Draw picks six distinct ascending numbers and an initial, for callers
// that have no reading to stop the reels on.
func (m *Machine) Draw() Frame {
	seen := make(map[int]bool, reelSize)
	nums := make([]int, 0, reelSize)
	for len(nums) < reelSize {
		n := m.intn(maxBall) + 1
		if seen[n] {
			continue
		}
		seen[n] = true
		nums = append(nums, n)
	}
	slices.Sort(nums)
	return Frame{Numbers: nums, Initial: m.pick()}
}
