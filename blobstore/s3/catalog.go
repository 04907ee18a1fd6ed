package s3

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/vfcprobe/blobstore"
)

// DDBClient is the subset of *dynamodb.Client used by RunCatalog.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

var _ DDBClient = (*dynamodb.Client)(nil)

// RunCatalog implements blobstore.Catalog on a DynamoDB table.
//
// Sequence numbers are claimed with a conditional write, so two concurrent
// runs of the same series never overwrite each other: the loser gets
// blobstore.ErrConcurrentModification.
//
// Table schema:
//   - Partition key: series (string)
//   - Sort key: seq (number)
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name vfcprobe-runs \
//	  --attribute-definitions AttributeName=series,AttributeType=S AttributeName=seq,AttributeType=N \
//	  --key-schema AttributeName=series,KeyType=HASH AttributeName=seq,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type RunCatalog struct {
	client DDBClient
	table  string
	now    func() time.Time
}

var _ blobstore.Catalog = (*RunCatalog)(nil)

// NewRunCatalog creates a catalog stored in table.
func NewRunCatalog(client DDBClient, table string) *RunCatalog {
	return &RunCatalog{
		client: client,
		table:  table,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// NewRunCatalogFromConfig creates a catalog using the default AWS credential chain.
func NewRunCatalogFromConfig(ctx context.Context, table string, optFns ...Option) (*RunCatalog, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}
	return NewRunCatalog(dynamodb.NewFromConfig(cfg), table), nil
}

// Append implements blobstore.Catalog.
func (c *RunCatalog) Append(ctx context.Context, rec blobstore.RunRecord) (blobstore.RunRecord, error) {
	latest, err := c.Latest(ctx, rec.Series)
	switch {
	case errors.Is(err, blobstore.ErrNotFound):
		rec.Seq = 1
	case err != nil:
		return blobstore.RunRecord{}, err
	default:
		rec.Seq = latest.Seq + 1
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = c.now()
	}

	_, err = c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(c.table),
		Item:                marshalRun(rec),
		ConditionExpression: aws.String("attribute_not_exists(seq)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return blobstore.RunRecord{}, blobstore.ErrConcurrentModification
		}
		return blobstore.RunRecord{}, fmt.Errorf("failed to append run to DynamoDB: %w", err)
	}
	return rec, nil
}

// Latest implements blobstore.Catalog.
func (c *RunCatalog) Latest(ctx context.Context, series string) (blobstore.RunRecord, error) {
	resp, err := c.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(c.table),
		KeyConditionExpression: aws.String("series = :s"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":s": &types.AttributeValueMemberS{Value: series},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return blobstore.RunRecord{}, fmt.Errorf("failed to query DynamoDB: %w", err)
	}
	if len(resp.Items) == 0 {
		return blobstore.RunRecord{}, blobstore.ErrNotFound
	}
	return unmarshalRun(resp.Items[0])
}

func marshalRun(rec blobstore.RunRecord) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"series":     &types.AttributeValueMemberS{Value: rec.Series},
		"seq":        &types.AttributeValueMemberN{Value: strconv.FormatUint(rec.Seq, 10)},
		"blob":       &types.AttributeValueMemberS{Value: rec.Blob},
		"rows":       &types.AttributeValueMemberN{Value: strconv.Itoa(rec.Rows)},
		"entries":    &types.AttributeValueMemberN{Value: strconv.Itoa(rec.Entries)},
		"created_at": &types.AttributeValueMemberS{Value: rec.CreatedAt.Format(time.RFC3339Nano)},
	}
}

func unmarshalRun(item map[string]types.AttributeValue) (blobstore.RunRecord, error) {
	var (
		rec blobstore.RunRecord
		err error
	)

	if rec.Series, err = stringAttr(item, "series"); err != nil {
		return rec, err
	}
	if rec.Blob, err = stringAttr(item, "blob"); err != nil {
		return rec, err
	}
	seq, err := numberAttr(item, "seq")
	if err != nil {
		return rec, err
	}
	if rec.Seq, err = strconv.ParseUint(seq, 10, 64); err != nil {
		return rec, fmt.Errorf("failed to parse seq: %w", err)
	}
	rows, err := numberAttr(item, "rows")
	if err != nil {
		return rec, err
	}
	if rec.Rows, err = strconv.Atoi(rows); err != nil {
		return rec, fmt.Errorf("failed to parse rows: %w", err)
	}
	entries, err := numberAttr(item, "entries")
	if err != nil {
		return rec, err
	}
	if rec.Entries, err = strconv.Atoi(entries); err != nil {
		return rec, fmt.Errorf("failed to parse entries: %w", err)
	}
	created, err := stringAttr(item, "created_at")
	if err != nil {
		return rec, err
	}
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return rec, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return rec, nil
}

func stringAttr(item map[string]types.AttributeValue, name string) (string, error) {
	v, ok := item[name].(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("invalid %s attribute in DynamoDB", name)
	}
	return v.Value, nil
}

func numberAttr(item map[string]types.AttributeValue, name string) (string, error) {
	v, ok := item[name].(*types.AttributeValueMemberN)
	if !ok {
		return "", fmt.Errorf("invalid %s attribute in DynamoDB", name)
	}
	return v.Value, nil
}
