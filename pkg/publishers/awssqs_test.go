package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/samvad-hq/samvad-board-client/internal/domain"
)

type fakeSQSClient struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQSClient) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-123")}, nil
}

func TestSQSPublisherPublishSuccess(t *testing.T) {
	client := &fakeSQSClient{}
	pub := &sqsPublisher{
		id:       "queue",
		typ:      TypeSQS,
		queueURL: "https://example.com/queue",
		client:   client,
		log:      noopLogger{},
	}

	err := pub.Publish(context.Background(), NewEvent("board-1", "Board", domain.ChangeCreated, domain.Post{ID: "p1"}, ""))
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if client.input == nil {
		t.Fatalf("client was not called")
	}
	if got := aws.ToString(client.input.QueueUrl); got != "https://example.com/queue" {
		t.Fatalf("QueueUrl = %s", got)
	}
	attr, ok := client.input.MessageAttributes["board_id"]
	if !ok || aws.ToString(attr.StringValue) != "board-1" {
		t.Fatalf("board_id attribute missing or wrong: %#v", attr)
	}
	if attr.DataType == nil || aws.ToString(attr.DataType) != "String" {
		t.Fatalf("DataType should be String, got %#v", attr.DataType)
	}
	if kind := client.input.MessageAttributes["kind"]; aws.ToString(kind.StringValue) != "created" {
		t.Fatalf("kind attribute wrong: %#v", kind)
	}
	if !strings.Contains(aws.ToString(client.input.MessageBody), `"board_id":"board-1"`) {
		t.Fatalf("MessageBody missing board_id: %s", aws.ToString(client.input.MessageBody))
	}
}

func TestSQSPublisherPublishError(t *testing.T) {
	pub := &sqsPublisher{
		id:       "queue",
		queueURL: "https://example.com/queue",
		client:   &fakeSQSClient{err: errors.New("boom")},
		log:      noopLogger{},
	}

	if err := pub.Publish(context.Background(), Event{BoardID: "b"}); err == nil {
		t.Fatalf("expected error from Publish")
	}
}

func TestSQSPublisherFIFOQueueGroupsByBoard(t *testing.T) {
	client := &fakeSQSClient{}
	pub := &sqsPublisher{
		id:       "queue",
		typ:      TypeSQS,
		queueURL: "https://sqs.example.com/123/board-events.fifo",
		client:   client,
		log:      noopLogger{},
	}

	evt := NewEvent("board-1", "Board", domain.ChangeDeleted, domain.Post{ID: "p1"}, "")
	if err := pub.Publish(context.Background(), evt); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if got := aws.ToString(client.input.MessageGroupId); got != "board-1" {
		t.Fatalf("MessageGroupId = %q", got)
	}
	if got := aws.ToString(client.input.MessageDeduplicationId); len(got) != 64 {
		t.Fatalf("MessageDeduplicationId = %q", got)
	}

	plain := &fakeSQSClient{}
	pub.queueURL = "https://sqs.example.com/123/board-events"
	pub.client = plain
	if err := pub.Publish(context.Background(), evt); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if plain.input.MessageGroupId != nil {
		t.Fatalf("standard queue must not carry a group id")
	}
}
