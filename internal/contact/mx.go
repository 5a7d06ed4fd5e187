package contact

import (
	"context"
	"errors"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

// MXResolver answers whether a domain can receive mail and which hosts
// exchange for it.
type MXResolver interface {
	LookupMX(ctx context.Context, domain string) (exists bool, hosts []string, err error)
}

// DNSResolver resolves mail exchangers via the system resolver, memoizing
// per domain for the life of the process. Batch runs hit the same few
// domains repeatedly.
type DNSResolver struct {
	resolver *net.Resolver
	timeout  time.Duration

	mu    sync.Mutex
	cache map[string]mxEntry
}

type mxEntry struct {
	exists bool
	hosts  []string
}

// NewDNSResolver creates a resolver with the given per-lookup timeout.
func NewDNSResolver(timeout time.Duration) *DNSResolver {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &DNSResolver{
		resolver: net.DefaultResolver,
		timeout:  timeout,
		cache:    make(map[string]mxEntry),
	}
}

// LookupMX returns whether the domain has mail-exchange records, with the
// exchange hosts ordered by preference. A DNS "not found" answer is a
// negative result, not an error.
func (r *DNSResolver) LookupMX(ctx context.Context, domain string) (bool, []string, error) {
	r.mu.Lock()
	if entry, ok := r.cache[domain]; ok {
		r.mu.Unlock()
		return entry.exists, entry.hosts, nil
	}
	r.mu.Unlock()

	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	records, err := r.resolver.LookupMX(lookupCtx, domain)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			r.store(domain, mxEntry{exists: false})
			return false, nil, nil
		}
		return false, nil, eris.Wrapf(err, "contact: mx lookup %s", domain)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Pref < records[j].Pref })
	hosts := make([]string, 0, len(records))
	for _, rec := range records {
		if rec.Host != "" && rec.Host != "." {
			hosts = append(hosts, rec.Host)
		}
	}

	entry := mxEntry{exists: len(hosts) > 0, hosts: hosts}
	r.store(domain, entry)
	return entry.exists, entry.hosts, nil
}

func (r *DNSResolver) store(domain string, entry mxEntry) {
	r.mu.Lock()
	r.cache[domain] = entry
	r.mu.Unlock()
}
