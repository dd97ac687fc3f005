package source

import (
	"context"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xuenqlve/cutbrick/data_source/mongodb"
	"github.com/xuenqlve/cutbrick/errors"
)

// Mongo 遍历集合中满足 filter 的文档，嵌套文档展开为 a.b 形式的字段
type Mongo struct {
	client *mongo.Client
	cursor *mongo.Cursor
	closed bool
}

func NewMongo(ctx context.Context, cfg *mongodb.Config, database, collection string, filter map[string]any) (*Mongo, error) {
	if database == "" || collection == "" {
		return nil, errors.NewCutErrorMessage(errors.ErrCodeRecordSource, "mongodb database and collection are required")
	}
	client, err := cfg.Connect(ctx)
	if err != nil {
		return nil, errors.NewCutError(errors.ErrCodeRecordSource, err)
	}
	if filter == nil {
		filter = map[string]any{}
	}
	cursor, err := client.Database(database).Collection(collection).
		Find(ctx, bson.M(filter), options.Find().SetBatchSize(cfg.BatchSize))
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.NewCutError(errors.ErrCodeRecordSource, errors.Trace(err))
	}
	return &Mongo{client: client, cursor: cursor}, nil
}

func (m *Mongo) Next(ctx context.Context) (Record, error) {
	if m.closed {
		return nil, errors.ErrRecordSourceClosed
	}
	if !m.cursor.Next(ctx) {
		if err := m.cursor.Err(); err != nil {
			return nil, errors.NewCutError(errors.ErrCodeRecordSource, errors.Trace(err))
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	var doc bson.D
	if err := m.cursor.Decode(&doc); err != nil {
		return nil, errors.NewCutError(errors.ErrCodeRecordSource, errors.Trace(err))
	}
	return documentRecord(doc), nil
}

func (m *Mongo) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	ctx := context.Background()
	err := m.cursor.Close(ctx)
	if disconnectErr := m.client.Disconnect(ctx); err == nil {
		err = disconnectErr
	}
	return errors.Trace(err)
}

func documentRecord(doc bson.D) Record {
	rec := Record{}
	flattenDocument(rec, "", doc)
	return rec
}

func flattenDocument(rec Record, prefix string, doc bson.D) {
	for _, e := range doc {
		key := e.Key
		if prefix != "" {
			key = prefix + "." + key
		}
		switch v := e.Value.(type) {
		case bson.D:
			flattenDocument(rec, key, v)
		case bson.M:
			flattenMap(rec, key, v)
		case primitive.Decimal128:
			rec[key] = v.String()
		case primitive.DateTime:
			rec[key] = int64(v)
		default:
			rec[key] = v
		}
	}
}
