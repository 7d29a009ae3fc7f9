package probe

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/confsnap/confsnap/internal/log"
	"github.com/confsnap/confsnap/internal/testbed"
)

// System identity OIDs queried over SNMP.
const (
	oidSysDescr = ".1.3.6.1.2.1.1.1.0"
	oidSysName  = ".1.3.6.1.2.1.1.5.0"
)

const (
	defaultTimeout = 2 * time.Second
	defaultWorkers = 8
)

// Result is the reachability report for one device.
type Result struct {
	Device    string `json:"device" yaml:"device"`
	Address   string `json:"address" yaml:"address"`
	Reachable bool   `json:"reachable" yaml:"reachable"`
	LatencyMS int64  `json:"latency_ms" yaml:"latency_ms"`
	SysName   string `json:"sys_name,omitempty" yaml:"sys_name,omitempty"`
	SysDescr  string `json:"sys_descr,omitempty" yaml:"sys_descr,omitempty"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Prober checks management reachability of testbed devices over TCP and
// optionally queries their SNMP identity.
type Prober struct {
	timeout   time.Duration
	community string
	snmp      bool
	workers   int
}

// Option configures a Prober.
type Option func(*Prober)

// WithTimeout sets the per-connection timeout.
func WithTimeout(d time.Duration) Option {
	return func(p *Prober) {
		p.timeout = d
	}
}

// WithSNMP enables SNMP identity queries with the given community string.
func WithSNMP(community string) Option {
	return func(p *Prober) {
		p.community = community
		p.snmp = true
	}
}

// New returns a Prober with the default timeout and worker count.
func New(opts ...Option) *Prober {
	p := &Prober{
		timeout: defaultTimeout,
		workers: defaultWorkers,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run probes every device of the testbed concurrently and returns one
// result per device, sorted by device name.
func (p *Prober) Run(ctx context.Context, tb *testbed.Testbed) []Result {
	names := tb.DeviceNames()

	workers := p.workers
	if len(names) < workers {
		workers = len(names)
	}

	jobs := make(chan string)
	results := make([]Result, 0, len(names))
	var mu sync.Mutex
	var wg sync.WaitGroup

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for name := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				res := p.probe(tb, name)
				mu.Lock()
				results = append(results, res)
				mu.Unlock()
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, name := range names {
			select {
			case <-ctx.Done():
				return
			case jobs <- name:
			}
		}
	}()
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Device < results[j].Device })
	return results
}

func (p *Prober) probe(tb *testbed.Testbed, name string) Result {
	device, _ := tb.Device(name)
	conn, _ := device.CLI()
	addr := net.JoinHostPort(conn.IP, strconv.Itoa(conn.Port))
	res := Result{Device: name, Address: addr}

	start := time.Now()
	c, err := net.DialTimeout("tcp", addr, p.timeout)
	if err != nil {
		res.Error = err.Error()
		log.Warn("Device unreachable", "device", name, "address", addr, "error", err)
		return res
	}
	c.Close()
	res.Reachable = true
	res.LatencyMS = time.Since(start).Milliseconds()
	log.Debug("Device reachable", "device", name, "address", addr, "latency_ms", res.LatencyMS)

	if p.snmp {
		sysName, sysDescr, err := p.identity(conn.IP)
		if err != nil {
			log.Debug("SNMP identity query failed", "device", name, "error", err)
		} else {
			res.SysName = sysName
			res.SysDescr = sysDescr
		}
	}
	return res
}

// identity queries sysName and sysDescr over SNMPv2c.
func (p *Prober) identity(ip string) (sysName, sysDescr string, err error) {
	client := &gosnmp.GoSNMP{
		Target:    ip,
		Port:      161,
		Community: p.community,
		Version:   gosnmp.Version2c,
		Timeout:   p.timeout,
		Retries:   1,
	}
	if err := client.Connect(); err != nil {
		return "", "", fmt.Errorf("snmp connect: %w", err)
	}
	defer client.Conn.Close()

	packet, err := client.Get([]string{oidSysName, oidSysDescr})
	if err != nil {
		return "", "", fmt.Errorf("snmp get: %w", err)
	}

	for _, variable := range packet.Variables {
		value, ok := variable.Value.([]byte)
		if !ok {
			continue
		}
		switch variable.Name {
		case oidSysName:
			sysName = string(value)
		case oidSysDescr:
			sysDescr = string(value)
		}
	}
	return sysName, sysDescr, nil
}
