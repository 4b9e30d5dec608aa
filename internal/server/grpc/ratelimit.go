package grpc

import (
	"context"
	"net"
	"sync"
	"time"

	pb "github.com/dmitrijs2005/dailyjournal/internal/proto"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// limitedMethods are throttled per peer to slow down credential guessing.
var limitedMethods = map[string]bool{
	pb.JournalService_Register_FullMethodName: true,
	pb.JournalService_Login_FullMethodName:    true,
}

// LimiterIdleTTL is how long a peer's bucket survives without requests.
const LimiterIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// peerLimiter keeps one token bucket per remote host.
// A nil *peerLimiter allows everything.
type peerLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	visitors map[string]*visitor
	now      func() time.Time
}

func newPeerLimiter(rps float64, burst int) *peerLimiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &peerLimiter{
		limit:    rate.Limit(rps),
		burst:    burst,
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

func (p *peerLimiter) allow(key string) bool {
	if p == nil {
		return true
	}
	p.mu.Lock()
	v, ok := p.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(p.limit, p.burst)}
		p.visitors[key] = v
	}
	v.lastSeen = p.now()
	p.mu.Unlock()
	return v.limiter.Allow()
}

// prune drops buckets idle for longer than idle and reports how many went.
func (p *peerLimiter) prune(idle time.Duration) int {
	if p == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	cutoff := p.now().Add(-idle)
	n := 0
	for key, v := range p.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(p.visitors, key)
			n++
		}
	}
	return n
}

func (p *peerLimiter) size() int {
	if p == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.visitors)
}

// PruneIdleLimiters forgets per-peer rate limit state unused for idle.
func (s *GRPCServer) PruneIdleLimiters(idle time.Duration) int {
	return s.limiter.prune(idle)
}

func peerKey(ctx context.Context) string {
	pr, ok := peer.FromContext(ctx)
	if !ok || pr.Addr == nil {
		return "unknown"
	}
	addr := pr.Addr.String()
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

func (s *GRPCServer) rateLimitInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if limitedMethods[info.FullMethod] && !s.limiter.allow(peerKey(ctx)) {
		s.rejected("rate_limited")
		return nil, status.Error(codes.ResourceExhausted, "too many requests")
	}
	return handler(ctx, req)
}
