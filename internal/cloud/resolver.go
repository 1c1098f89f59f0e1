package cloud

import (
	"context"
	"log/slog"
	"time"
)

// RetryPolicy bounds the peer poll loop. Now and Sleep are injectable so
// tests do not need real wall-clock waits.
type RetryPolicy struct {
	MaxWait      time.Duration
	PollInterval time.Duration
	Now          func() time.Time
	Sleep        func(time.Duration)
}

// DefaultRetryPolicy bounds cluster startup to ~5s under slow cloud-API
// propagation, polling every 100ms.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxWait:      5 * time.Second,
		PollInterval: 100 * time.Millisecond,
		Now:          time.Now,
		Sleep:        time.Sleep,
	}
}

// Resolver polls a cloud driver for cluster member addresses until a peer
// other than the local node shows up or the wait budget runs out.
type Resolver struct {
	policy RetryPolicy
	logger *slog.Logger
}

func NewResolver(policy RetryPolicy, logger *slog.Logger) *Resolver {
	if policy.Now == nil {
		policy.Now = time.Now
	}
	if policy.Sleep == nil {
		policy.Sleep = time.Sleep
	}
	return &Resolver{policy: policy, logger: logger}
}

// Resolve returns the private addresses the driver reports for clusterName.
// It stops polling as soon as the result contains an address other than
// localAddr, or once the wait budget is exhausted. The result is never
// empty when localAddr is known: a node that sees only itself bootstraps a
// single-node cluster. A hard driver failure propagates immediately and is
// not retried.
func (r *Resolver) Resolve(ctx context.Context, driver Driver, clusterName, localAddr string) ([]string, error) {
	start := r.policy.Now()
	var last []string

	for {
		ips, err := driver.ListPrivateIPs(ctx, clusterName)
		if err != nil {
			return nil, err
		}
		last = ips

		if hasPeer(ips, localAddr) {
			return ips, nil
		}
		if r.policy.Now().Sub(start) > r.policy.MaxWait {
			break
		}
		r.policy.Sleep(r.policy.PollInterval)
	}

	r.logger.Warn("no cluster peer appeared within the wait budget",
		slog.String("cluster", clusterName),
		slog.Duration("waited", r.policy.MaxWait))

	if len(last) == 0 && localAddr != "" {
		return []string{localAddr}, nil
	}
	return last, nil
}

// hasPeer reports whether ips contains an address other than the local
// one. When the local address is unknown any address counts as a peer.
func hasPeer(ips []string, localAddr string) bool {
	for _, ip := range ips {
		if ip != localAddr {
			return true
		}
	}
	return false
}
