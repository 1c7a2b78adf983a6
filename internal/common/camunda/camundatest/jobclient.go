// Package camundatest provides an in-memory worker.JobClient for handler
// tests. Commands are built by the real Zeebe client and land in a fake
// gateway that records the requests.
package camundatest

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
)

// Gateway records job commands. Methods not overridden panic through the
// nil embedded interface.
type Gateway struct {
	pb.GatewayClient

	mu        sync.Mutex
	completed []*pb.CompleteJobRequest
	failed    []*pb.FailJobRequest
	thrown    []*pb.ThrowErrorRequest
}

func (g *Gateway) CompleteJob(_ context.Context, in *pb.CompleteJobRequest, _ ...grpc.CallOption) (*pb.CompleteJobResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.completed = append(g.completed, in)
	return &pb.CompleteJobResponse{}, nil
}

func (g *Gateway) FailJob(_ context.Context, in *pb.FailJobRequest, _ ...grpc.CallOption) (*pb.FailJobResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failed = append(g.failed, in)
	return &pb.FailJobResponse{}, nil
}

func (g *Gateway) ThrowError(_ context.Context, in *pb.ThrowErrorRequest, _ ...grpc.CallOption) (*pb.ThrowErrorResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.thrown = append(g.thrown, in)
	return &pb.ThrowErrorResponse{}, nil
}

// JobClient implements worker.JobClient on top of Gateway.
type JobClient struct {
	Gateway *Gateway
}

func NewJobClient() *JobClient {
	return &JobClient{Gateway: &Gateway{}}
}

func neverRetry(context.Context, error) bool { return false }

func (c *JobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	return commands.NewCompleteJobCommand(c.Gateway, neverRetry)
}

func (c *JobClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	return commands.NewFailJobCommand(c.Gateway, neverRetry)
}

func (c *JobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	return commands.NewThrowErrorCommand(c.Gateway, neverRetry)
}

// Completed returns the recorded complete requests.
func (c *JobClient) Completed() []*pb.CompleteJobRequest {
	c.Gateway.mu.Lock()
	defer c.Gateway.mu.Unlock()
	return append([]*pb.CompleteJobRequest(nil), c.Gateway.completed...)
}

// Failed returns the recorded fail requests.
func (c *JobClient) Failed() []*pb.FailJobRequest {
	c.Gateway.mu.Lock()
	defer c.Gateway.mu.Unlock()
	return append([]*pb.FailJobRequest(nil), c.Gateway.failed...)
}

// Thrown returns the recorded throw-error requests.
func (c *JobClient) Thrown() []*pb.ThrowErrorRequest {
	c.Gateway.mu.Lock()
	defer c.Gateway.mu.Unlock()
	return append([]*pb.ThrowErrorRequest(nil), c.Gateway.thrown...)
}

// CompletedVariables decodes the variables of the only completed job into out.
func (c *JobClient) CompletedVariables(t testing.TB, out interface{}) {
	t.Helper()
	completed := c.Completed()
	require.Len(t, completed, 1, "expected exactly one completed job")
	require.NoError(t, json.Unmarshal([]byte(completed[0].Variables), out))
}

// NewJob builds an activated job of taskType carrying variables encoded as
// JSON. Strings are passed through unchanged.
func NewJob(t testing.TB, key int64, taskType string, variables interface{}) entities.Job {
	t.Helper()

	var payload string
	switch v := variables.(type) {
	case string:
		payload = v
	default:
		data, err := json.Marshal(v)
		require.NoError(t, err)
		payload = string(data)
	}

	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               taskType,
		ProcessInstanceKey: key * 10,
		Retries:            3,
		Variables:          payload,
	}}
}
