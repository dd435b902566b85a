package cmd

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"
)

// startResolver serves NXDOMAIN for missing.example, SERVFAIL for
// broken.example and NOERROR for everything else.
func startResolver(t *testing.T) string {
	t.Helper()
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	started := make(chan struct{})
	srv := &dns.Server{
		PacketConn:        pc,
		NotifyStartedFunc: func() { close(started) },
		Handler: dns.HandlerFunc(func(w dns.ResponseWriter, r *dns.Msg) {
			m := new(dns.Msg)
			switch r.Question[0].Name {
			case "missing.example.":
				m.SetRcode(r, dns.RcodeNameError)
			case "broken.example.":
				m.SetRcode(r, dns.RcodeServerFailure)
			default:
				m.SetReply(r)
			}
			w.WriteMsg(m)
		}),
	}
	go srv.ActivateAndServe()
	<-started
	t.Cleanup(func() { srv.Shutdown() })
	return pc.LocalAddr().String()
}

func TestDNSCheckerExists(t *testing.T) {
	d := NewDNSChecker(startResolver(t), 2*time.Second)
	ctx := context.Background()

	if ok, err := d.Exists(ctx, "example.com"); err != nil || !ok {
		t.Errorf("Exists(example.com) = %v, %v; want true, nil", ok, err)
	}
	if ok, err := d.Exists(ctx, "missing.example"); err != nil || ok {
		t.Errorf("Exists(missing.example) = %v, %v; want false, nil", ok, err)
	}
	if _, err := d.Exists(ctx, "broken.example"); err == nil {
		t.Error("Exists(broken.example) succeeded, want error")
	}
}

func TestWhoisLookupStopsOnNXDOMAIN(t *testing.T) {
	w := NewWhoisLookup(time.Second, NewDNSChecker(startResolver(t), 2*time.Second))
	_, err := w.Lookup(context.Background(), "login.missing.example:8443")
	if !errors.Is(err, ErrNoSuchDomain) {
		t.Errorf("Lookup error = %v, want ErrNoSuchDomain", err)
	}
}
