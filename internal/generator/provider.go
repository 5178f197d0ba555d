package generator

import (
	"encoding/binary"
	"math"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Provider is the single source of randomness for a generation run. Every
// choice a factory makes goes through it so a fixed seed reproduces the
// dataset.
type Provider struct {
	rand    *rand.Rand
	faker   *gofakeit.Faker
	now     time.Time
	counter uint32
}

func NewProvider(seed int64, now time.Time) *Provider {
	return &Provider{
		rand:  rand.New(rand.NewSource(seed)),
		faker: gofakeit.New(uint64(seed)),
		now:   now.UTC().Truncate(time.Millisecond),
	}
}

func (p *Provider) Now() time.Time { return p.now }

func (p *Provider) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return p.rand.Intn(n)
}

// IntBetween returns an int in [min, max).
func (p *Provider) IntBetween(min, max int) int {
	return min + p.Intn(max-min)
}

// Float returns a value in [min, max) rounded to two decimals.
func (p *Provider) Float(min, max float64) float64 {
	v := min + p.rand.Float64()*(max-min)
	return math.Floor(v*100) / 100
}

func (p *Provider) Chance(probability float64) bool {
	return p.rand.Float64() < probability
}

// DateBetween returns an instant in [start, end), truncated to the
// millisecond precision the store keeps.
func (p *Provider) DateBetween(start, end time.Time) time.Time {
	span := end.Sub(start)
	if span <= 0 {
		return start.UTC().Truncate(time.Millisecond)
	}
	offset := time.Duration(p.rand.Int63n(int64(span)))
	return start.Add(offset).UTC().Truncate(time.Millisecond)
}

// ObjectID builds an identifier from the run clock, the seeded source and a
// per-run counter, so ids are unique within a run and stable across runs
// with the same seed.
func (p *Provider) ObjectID() primitive.ObjectID {
	var id primitive.ObjectID
	binary.BigEndian.PutUint32(id[0:4], uint32(p.now.Unix()))
	binary.BigEndian.PutUint32(id[4:8], p.rand.Uint32())
	p.counter++
	binary.BigEndian.PutUint32(id[8:12], p.counter)
	return id
}

// Sample picks k distinct indexes out of n.
func (p *Provider) Sample(n, k int) []int {
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}
	return p.rand.Perm(n)[:k]
}

func pick[T any](p *Provider, items []T) T {
	return items[p.Intn(len(items))]
}

var (
	familyNames = []string{"Nguyễn", "Trần", "Lê", "Phạm", "Hoàng", "Huỳnh", "Phan", "Vũ", "Võ", "Đặng", "Bùi", "Đỗ", "Hồ", "Ngô", "Dương", "Lý"}
	middleNames = []string{"Văn", "Thị", "Hữu", "Minh", "Thanh", "Quốc", "Ngọc", "Đức", "Gia", "Bảo", "Anh", "Xuân"}
	givenNames  = []string{"An", "Bình", "Châu", "Dũng", "Giang", "Hà", "Hải", "Hùng", "Khoa", "Lan", "Linh", "Long", "Mai", "Nam", "Phong", "Phúc", "Quân", "Sơn", "Tâm", "Thảo", "Trang", "Tuấn", "Vy", "Yến"}
)

func (p *Provider) FullName() string {
	return pick(p, familyNames) + " " + pick(p, middleNames) + " " + pick(p, givenNames)
}

func (p *Provider) Phone() string {
	return p.faker.Numerify("0## ### ####")
}

func (p *Provider) IPv4() string {
	return p.faker.IPv4Address()
}

func (p *Provider) UserAgent() string {
	return p.faker.UserAgent()
}

func (p *Provider) Sentence() string {
	return p.faker.LoremIpsumSentence(p.IntBetween(6, 12))
}

func (p *Provider) Sentences(n int) string {
	return p.faker.LoremIpsumParagraph(1, n, p.IntBetween(6, 12), " ")
}

func (p *Provider) Paragraphs(n int) string {
	return p.faker.LoremIpsumParagraph(n, 4, p.IntBetween(6, 12), "\n")
}
