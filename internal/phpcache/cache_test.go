package phpcache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/doITmagic/phpindex/internal/phpindex"
	"github.com/doITmagic/phpindex/internal/phpsymbol"
)

func TestMemoryCachePutGet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	analysis := &phpindex.Analysis{
		URI:  "file:///app/Greeter.php",
		File: &phpsymbol.Symbol{Kind: phpsymbol.KindFile, Name: "file:///app/Greeter.php"},
	}
	require.NoError(t, c.Put(ctx, analysis))

	got, ok, err := c.Get(ctx, analysis.URI)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, analysis.URI, got.URI)
}

func TestMemoryCacheMissingURI(t *testing.T) {
	c := NewMemoryCache()
	_, ok, err := c.Get(context.Background(), "file:///nowhere.php")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryCachePutOverwrites(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	uri := "file:///app/Greeter.php"

	require.NoError(t, c.Put(ctx, &phpindex.Analysis{URI: uri, File: &phpsymbol.Symbol{Name: "v1"}}))
	require.NoError(t, c.Put(ctx, &phpindex.Analysis{URI: uri, File: &phpsymbol.Symbol{Name: "v2"}}))

	got, ok, err := c.Get(ctx, uri)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v2", got.File.Name)
}

func TestMemoryCacheDelete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	uri := "file:///app/Greeter.php"

	require.NoError(t, c.Put(ctx, &phpindex.Analysis{URI: uri, File: &phpsymbol.Symbol{}}))
	require.NoError(t, c.Delete(ctx, uri))

	_, ok, err := c.Get(ctx, uri)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestBucketOfIsStableAndBounded(t *testing.T) {
	b := bucketOf("file:///app/Greeter.php", defaultBucketCount)
	require.Less(t, b, uint32(defaultBucketCount))
	require.Equal(t, b, bucketOf("file:///app/Greeter.php", defaultBucketCount))
}

func TestEncodeDecodeRecordRoundTrip(t *testing.T) {
	analysis := &phpindex.Analysis{
		URI:  "file:///app/Greeter.php",
		File: &phpsymbol.Symbol{Kind: phpsymbol.KindClass, Name: `App\Greeter`},
		References: []phpsymbol.Reference{
			{Kind: phpsymbol.KindClass, Name: `App\Contracts\Greets`},
		},
	}
	raw, err := encodeRecord(analysis)
	require.NoError(t, err)

	decoded, err := decodeRecord(raw)
	require.NoError(t, err)
	require.Equal(t, analysis.URI, decoded.URI)
	require.Equal(t, analysis.File.Name, decoded.File.Name)
	require.Len(t, decoded.References, 1)
}
