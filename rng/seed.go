package rng

import (
	"context"
	"encoding/binary"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Seeder provides the seed for a new Source. Implementations may block (for example, on the
// network) and should respect the cancellation of ctx.
type Seeder interface {
	Seed(ctx context.Context) (int64, error)
}

// SeederFunc adapts an ordinary function to a Seeder.
type SeederFunc func(context.Context) (int64, error)

// Seed calls f(ctx)
func (f SeederFunc) Seed(ctx context.Context) (int64, error) {
	return f(ctx)
}

// Clock seeds from the current time. It never fails.
type Clock struct{}

func (Clock) Seed(ctx context.Context) (int64, error) {
	return time.Now().UnixNano(), nil
}

// Fixed always returns the same seed, which is mostly useful for reproducible runs.
type Fixed int64

func (f Fixed) Seed(ctx context.Context) (int64, error) {
	return int64(f), nil
}

// DefaultRandomOrgURL requests four random bytes, formatted as whitespace-separated decimals.
const DefaultRandomOrgURL string = "https://www.random.org/cgi-bin/randbyte?nbytes=4&format=d"

// RandomOrg fetches four bytes of external entropy over HTTP and interprets them as a
// little-endian int32 seed.
//
// The zero value uses http.DefaultClient and DefaultRandomOrgURL.
type RandomOrg struct {
	Client *http.Client
	URL    string
}

func (r RandomOrg) Seed(ctx context.Context) (int64, error) {
	client, url := r.Client, r.URL
	if client == nil {
		client = http.DefaultClient
	}
	if url == "" {
		url = DefaultRandomOrgURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, errors.Wrapf(err, "Can't build entropy request")
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, errors.Wrapf(err, "Entropy request to %s failed", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, errors.Errorf("Entropy request to %s returned status %d", url, resp.StatusCode)
	}

	// the response is tiny; anything longer than this is not what we asked for
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
	if err != nil {
		return 0, errors.Wrapf(err, "Can't read entropy response")
	}

	return parseBytes(string(body))
}

// parseBytes converts at least four whitespace-separated decimal bytes into an int32 seed.
func parseBytes(s string) (int64, error) {
	fields := strings.Fields(s)
	if len(fields) < 4 {
		return 0, errors.Errorf("Entropy response has %d values, need 4", len(fields))
	}

	var bs [4]byte
	for i := range bs {
		v, err := strconv.ParseUint(fields[i], 10, 8)
		if err != nil {
			return 0, errors.Wrapf(err, "Entropy value %d (%q) is not a byte", i, fields[i])
		}
		bs[i] = byte(v)
	}

	return int64(int32(binary.LittleEndian.Uint32(bs[:]))), nil
}

// Seeded returns a new Source seeded by s.
func Seeded(ctx context.Context, s Seeder) (Source, int64, error) {
	if s == nil {
		s = Clock{}
	}

	seed, err := s.Seed(ctx)
	if err != nil {
		return nil, 0, err
	}

	return New(seed), seed, nil
}
