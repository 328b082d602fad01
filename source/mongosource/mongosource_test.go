package mongosource_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/DukeRupert/pagedlist"
	"github.com/DukeRupert/pagedlist/source/mongosource"
)

type post struct {
	Title string `bson:"title"`
	Views int    `bson:"views"`
}

// fakeCollection serves docs in order, honouring skip and limit.
type fakeCollection struct {
	docs     []post
	countErr error
	findErr  error

	lastFilter interface{}
	lastFind   *options.FindOptions
}

func (c *fakeCollection) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	if c.countErr != nil {
		return 0, c.countErr
	}
	return int64(len(c.docs)), nil
}

func (c *fakeCollection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	if c.findErr != nil {
		return nil, c.findErr
	}
	c.lastFilter = filter
	fo := options.MergeFindOptions(opts...)
	c.lastFind = fo

	start := int(*fo.Skip)
	end := start + int(*fo.Limit)
	start = min(start, len(c.docs))
	end = min(end, len(c.docs))

	docs := make([]interface{}, 0, end-start)
	for _, p := range c.docs[start:end] {
		docs = append(docs, p)
	}
	return mongo.NewCursorFromDocuments(docs, nil, nil)
}

func posts(titles ...string) []post {
	out := make([]post, len(titles))
	for i, title := range titles {
		out[i] = post{Title: title, Views: i}
	}
	return out
}

func TestSource_Fetch(t *testing.T) {
	col := &fakeCollection{docs: posts("a", "b", "c", "d", "e")}
	filter := bson.D{{Key: "published", Value: true}}
	src := mongosource.New[post](col, filter, bson.D{{Key: "created_at", Value: -1}})

	got, err := src.Fetch(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []post{{"c", 2}, {"d", 3}}, got)

	assert.Equal(t, filter, col.lastFilter)
	assert.Equal(t, int64(2), *col.lastFind.Skip)
	assert.Equal(t, int64(2), *col.lastFind.Limit)
	assert.Equal(t,
		bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}},
		col.lastFind.Sort)
}

func TestSource_FetchHugeLimit(t *testing.T) {
	col := &fakeCollection{docs: posts("a", "b")}
	src := mongosource.New[post](col, nil, nil)

	got, err := src.Fetch(context.Background(), 0, 1<<62)
	require.NoError(t, err)
	assert.Equal(t, []post{{"a", 0}, {"b", 1}}, got)
	assert.Equal(t, int64(1<<62), *col.lastFind.Limit)
}

func TestSource_SortKeepsExplicitID(t *testing.T) {
	col := &fakeCollection{docs: posts("a")}
	sort := bson.D{{Key: "_id", Value: -1}}
	src := mongosource.New[post](col, nil, sort)

	_, err := src.Fetch(context.Background(), 0, 1)
	require.NoError(t, err)
	assert.Equal(t, sort, col.lastFind.Sort)
	assert.Equal(t, bson.D{}, col.lastFilter)
}

func TestSource_WithFromSource(t *testing.T) {
	col := &fakeCollection{docs: posts("a", "b", "c", "d", "e")}
	src := mongosource.New[post](col, nil, nil)

	list, err := pagedlist.FromSource[post](context.Background(), src, 3, 2)
	require.NoError(t, err)

	assert.Equal(t, 5, list.TotalItemCount())
	assert.True(t, list.IsLastPage())
	assert.Equal(t, []post{{"e", 4}}, list.Items())
}

func TestSource_Errors(t *testing.T) {
	boom := errors.New("server selection timeout")

	src := mongosource.New[post](&fakeCollection{countErr: boom}, nil, nil)
	_, err := src.Count(context.Background())
	assert.ErrorIs(t, err, boom)

	src = mongosource.New[post](&fakeCollection{findErr: boom}, nil, nil)
	_, err = src.Fetch(context.Background(), 0, 5)
	assert.ErrorIs(t, err, boom)

	_, err = pagedlist.FromSource[post](context.Background(), src, 1, 5)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, pagedlist.CodeSource, pagedlist.ErrorCode(err))
}
