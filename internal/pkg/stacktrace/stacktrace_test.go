package stacktrace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternalPaths(t *testing.T) {
	stack := []byte(`goroutine 7 [running]:
runtime/debug.Stack()
	/usr/local/go/src/runtime/debug/stack.go:26 +0x5e
github.com/shandysiswandi/mailrelay/internal/pkg/router.middlewareRecoverer.func1.1()
	/app/internal/pkg/router/middleware_recover.go:31 +0x8f
panic({0x10, 0x20})
	/usr/local/go/src/runtime/panic.go:785 +0x132
github.com/shandysiswandi/mailrelay/internal/relay/inbound.(*HTTPEndpoint).SendEmail(...)
	/app/internal/relay/inbound/http_endpoint.go:40
`)

	assert.Equal(t, []string{
		"internal/pkg/router/middleware_recover.go:31",
		"internal/relay/inbound/http_endpoint.go:40",
	}, InternalPaths(stack))
}

func TestInternalPaths_NoInternalFrames(t *testing.T) {
	assert.Empty(t, InternalPaths([]byte("goroutine 1 [running]:\nmain.main()\n\t/app/main.go:10 +0x1\n")))
}
