package pattern

import (
	"math/rand/v2"
	"sync"
)

var productivityTips = [...]string{
	"🧠 Your brain consumes 20% of your body's energy. Take glucose breaks!",
	"🌊 Drink water before coffee. Dehydration mimics fatigue.",
	"👀 Follow the 20-20-20 rule: Every 20 min, look 20 feet away for 20 sec.",
	"🎵 Classical music with 60-70 BPM matches resting heart rate, improving focus.",
	"🌡️ 21-22°C (70-72°F) is optimal for cognitive performance.",
	"🧘 2-minute breathing exercises can reset your nervous system.",
	"📱 Notifications fragment attention for 23 minutes on average.",
	"🌙 Blue light after 8 PM disrupts melatonin by 50%.",
	"🏃 10-minute walks increase creativity for 2 hours after.",
	"☕ Caffeine takes 20 minutes to activate. Drink before a power nap!",
}

// Tips returns the static tip list.
func Tips() []string {
	return append([]string(nil), productivityTips[:]...)
}

// TipPicker selects a productivity tip uniformly at random. Safe for concurrent use.
type TipPicker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewTipPicker wraps src. A nil src uses a randomly seeded PCG.
func NewTipPicker(src rand.Source) *TipPicker {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &TipPicker{rng: rand.New(src)}
}

// Pick returns one tip.
func (p *TipPicker) Pick() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return productivityTips[p.rng.IntN(len(productivityTips))]
}
