package game

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventKind classifies console entries for the clients.
type EventKind string

const (
	EventInfo    EventKind = "info"
	EventSuccess EventKind = "success"
	EventWarning EventKind = "warning"
	EventError   EventKind = "error"
	EventMeme    EventKind = "meme"
	EventPnL     EventKind = "pnl"
	EventRugPull EventKind = "rug_pull"
)

// Event is one console entry.
type Event struct {
	ID        string    `json:"id"`
	Kind      EventKind `json:"kind"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

const feedCapacity = 50

// Feed keeps the most recent console entries and fans new ones out to
// subscribers. Slow subscribers are skipped, never blocked on.
type Feed struct {
	mu      sync.Mutex
	entries []Event
	subs    map[chan Event]struct{}
}

func NewFeed() *Feed {
	return &Feed{subs: make(map[chan Event]struct{})}
}

// Publish appends an entry, evicting the oldest past capacity.
func (f *Feed) Publish(kind EventKind, message string) Event {
	ev := Event{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}

	f.mu.Lock()
	f.entries = append(f.entries, ev)
	if len(f.entries) > feedCapacity {
		f.entries = f.entries[len(f.entries)-feedCapacity:]
	}
	for ch := range f.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	f.mu.Unlock()
	return ev
}

// Recent returns the buffered entries, newest last.
func (f *Feed) Recent() []Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Event, len(f.entries))
	copy(out, f.entries)
	return out
}

// Subscribe registers a channel receiving every future entry. The returned
// cancel func must be called when the consumer goes away.
func (f *Feed) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 64)
	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()
	return ch, func() {
		f.mu.Lock()
		delete(f.subs, ch)
		f.mu.Unlock()
	}
}

var memePhrases = []string{
	"wen lambo? 🚗",
	"ngmi fren 😢",
	"wagmi! 🚀",
	"ser, this is a Wendy's 🍔",
	"funds are safu 🔒",
	"few understand 🧠",
	"probably nothing 👀",
	"gm ☀️",
	"paper hands detected 📄",
	"diamond hands forged 💎",
	"this is the gwei ⚡",
	"cope and seethe 😤",
	"anon, i... 😳",
	"touch grass ser 🌿",
	"sir, step away from the charts 📊",
	"based and memepilled 💊",
	"chad moves only 💪",
	"wen moon? 🌕",
	"fud detected 🚨",
	"bullish af 📈",
}

var winMessages = []string{
	"🚀 WAGMI! Your diamond hands are paying off!",
	"💎 Paper hands cry, diamond hands buy!",
	"🐋 Whale alert! You're making moves!",
	"🌙 To the moon! Next stop: Lambo dealership!",
	"🦍 Apes together strong! Nice gains!",
	"💰 Few understand. You're clearly one of them!",
	"🎯 Not financial advice, but you're crushing it!",
	"🧠 High IQ play! The alpha is strong with this one!",
}

var lossMessages = []string{
	"📉 It's just a temporary dip, bro!",
	"🤡 Ser, this is a Wendy's...",
	"💸 Money is just a social construct anyway",
	"🥶 Looks like we're early... too early",
	"🏊 Swimming with the sharks got expensive",
	"🤝 Thank you for providing liquidity to the market",
	"🫡 Your sacrifice will be remembered",
	"🌪️ Probably nothing...",
}

var levelUpMessages = []string{
	"🎓 From degen to based! Level up!",
	"🧠 Big brain energy increasing!",
	"🐋 Getting closer to whale status!",
	"🎯 Skills upgraded! Copium levels decreasing!",
	"🚀 Level up! Your portfolio thanks you!",
	"💎 Another level closer to generational wealth!",
	"🦍 Evolved from ape to silverback!",
	"🎮 Trading skills increased! Boss level unlocked!",
}

var idlePhrases = []string{
	"Setting up my snipers...",
	"Doing Solscan investigation...",
	"Searching for insider's wallet...",
	"Brainstorming with ChatGPT...",
	"Trenching...",
	"Drawing triangles on charts...",
	"Asking CT for alpha...",
	"DMing influencers 'ser wen token'...",
	"Watching Richard Heart videos...",
	"Studying ancient Wojak patterns...",
}

func pickPhrase(rng *rand.Rand, phrases []string) string {
	return phrases[rng.Intn(len(phrases))]
}

const (
	tickerConsonants = "BCDFGHJKLMNPQRSTVWXYZ"
	tickerVowels     = "AEIOU"
)

// RandomTicker builds a 2-4 letter pronounceable ticker, alternating
// consonants and vowels.
func RandomTicker(rng *rand.Rand) string {
	length := rng.Intn(3) + 2
	var b strings.Builder
	for i := 0; i < length; i++ {
		chars := tickerConsonants
		if i%2 == 1 {
			chars = tickerVowels
		}
		b.WriteByte(chars[rng.Intn(len(chars))])
	}
	return b.String()
}
