package convert

import (
	"sync"
	"testing"

	"github.com/Faultbox/sceneconv/pkg/source"
)

func TestTextureCacheAcquire(t *testing.T) {
	c := NewTextureCache()
	a := fileTexture("a", "")
	b := fileTexture("b", "")

	fa, hit := c.Acquire(a)
	if hit || fa.RefCount != 1 || fa.Filename != "textures/a.png" || fa.OriginalFilename != fa.Filename {
		t.Fatalf("first acquire: hit=%v %+v", hit, fa)
	}
	again, hit := c.Acquire(a)
	if !hit || again != fa || fa.RefCount != 2 {
		t.Errorf("second acquire: hit=%v refs=%d", hit, fa.RefCount)
	}
	if fb, hit := c.Acquire(b); hit || fb == fa {
		t.Error("distinct textures should get distinct records")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d", c.Len())
	}

	c.Reset()
	if c.Len() != 0 {
		t.Errorf("Len after Reset = %d", c.Len())
	}
	if _, hit := c.Acquire(a); hit {
		t.Error("reset cache should miss")
	}
}

func TestTextureCacheNormalizesFilename(t *testing.T) {
	tex := fileTexture("wood", "")
	tex.FileName = `C:\art\wood.png`

	f, _ := NewTextureCache().Acquire(tex)
	if f.Filename != "C:/art/wood.png" {
		t.Errorf("Filename = %q", f.Filename)
	}
	if f.OriginalFilename != `C:\art\wood.png` {
		t.Errorf("OriginalFilename = %q", f.OriginalFilename)
	}
}

func TestTextureCacheConcurrent(t *testing.T) {
	c := NewTextureCache()
	texs := []*source.Texture{fileTexture("a", ""), fileTexture("b", ""), fileTexture("c", "")}

	const workers = 8
	const rounds = 50
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				c.Acquire(texs[i%len(texs)])
			}
		}()
	}
	wg.Wait()

	if c.Len() != len(texs) {
		t.Fatalf("Len = %d", c.Len())
	}
	total := 0
	for _, tex := range texs {
		f, _ := c.Acquire(tex)
		total += f.RefCount - 1
	}
	if total != workers*rounds {
		t.Errorf("total references = %d, want %d", total, workers*rounds)
	}
}
