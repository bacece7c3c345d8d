package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: http
    enabled: true
    http:
      url: https://example.com/2
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "http2" {
		t.Fatalf("expected only http2 enabled, got %#v", enabled)
	}
}

func TestValidatePublisherConfigRejectsMissingHTTP(t *testing.T) {
	err := validatePublisherConfig(PublisherConfig{
		ID:   "h1",
		Type: TypeHTTP,
	})
	if err == nil {
		t.Fatalf("expected validation error for missing http block")
	}
}

func TestLoadRegistryJSONWithCloudSinks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.json")
	raw := `{"publishers":[
  {"id":"topic","type":"SNS","sns":{"topic_arn":" arn:aws:sns:us-east-1:1:posts ","region":"us-east-1"}},
  {"id":"gcp","type":"gcp_pubsub","gcp_pubsub":{"project_id":"p","topic":"posts"}}
]}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	topic, ok := reg.ByID("topic")
	if !ok || topic.Type != TypeSNS || topic.SNS.TopicARN != "arn:aws:sns:us-east-1:1:posts" {
		t.Fatalf("unexpected sns config %#v", topic)
	}
	if len(reg.Enabled()) != 2 {
		t.Fatalf("expected both publishers enabled")
	}
}

func TestValidatePublisherConfigCloudSinks(t *testing.T) {
	cases := []PublisherConfig{
		{ID: "s", Type: TypeSNS},
		{ID: "s", Type: TypeSNS, SNS: &SNSPublisherConfig{TopicARN: "arn"}},
		{ID: "s", Type: TypeSNS, SNS: &SNSPublisherConfig{TopicARN: "arn", Region: "us-east-1", AWSCredentials: AWSCredentials{AccessKeyID: "only-key"}}},
		{ID: "q", Type: TypeSQS, SQS: &SQSPublisherConfig{Region: "us-east-1"}},
		{ID: "g", Type: TypePubSub, PubSub: &PubSubPublisherConfig{ProjectID: "p"}},
	}
	for _, cfg := range cases {
		if err := validatePublisherConfig(cfg); err == nil {
			t.Fatalf("expected validation error for %#v", cfg)
		}
	}
}

func TestLoadRegistryYAMLInlineCredentials(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: queue
    type: sqs
    sqs:
      uri: https://sqs.us-east-1.amazonaws.com/1/posts
      region: us-east-1
      access_key_id: AKID
      secret_access_key: secret
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	q, _ := reg.ByID("queue")
	if q.SQS.AccessKeyID != "AKID" || q.SQS.SecretAccessKey != "secret" {
		t.Fatalf("inline credentials not decoded: %#v", q.SQS)
	}
}
