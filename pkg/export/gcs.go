package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"cloud.google.com/go/storage"
	"github.com/c2h5oh/datasize"
	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"

	"github.com/voluzi/peaktrace/internal/utils"
)

const GCS Provider = "gcs"

type GcsExporter struct {
	client *storage.Client
}

func NewGcsExporter() (*GcsExporter, error) {
	ctx := context.Background()
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %v", err)
	}
	return &GcsExporter{
		client: client,
	}, nil
}

func (gcs *GcsExporter) Provider() Provider {
	return GCS
}

// Upload compresses dir into a single <name>.tar.gz object, streaming
// tar output straight into the object writer, and stores a per-file
// digest manifest next to it as <name>.manifest.json. Trace bundles
// are small, so there is no multi-part handling.
func (gcs *GcsExporter) Upload(dir, bucket, name string, opts ...UploadOption) error {
	options := defaultUploadOptions()
	for _, opt := range opts {
		opt(options)
	}

	// Check directory existence
	fi, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot stat directory %q: %v", dir, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%q is not a directory", dir)
	}

	totalSize, err := GetDirSize(dir)
	if err != nil {
		return err
	}

	manifest, err := BuildManifest(dir)
	if err != nil {
		return fmt.Errorf("failed to build manifest: %v", err)
	}

	log.WithFields(log.Fields{
		"size":   totalSize.HumanReadable(),
		"source": dir,
		"target": fmt.Sprintf("gs://%s/%s.tar.gz", bucket, name),
	}).Info("start compressing and uploading")

	// Connect tar+gzip => GCS through a pipe
	pr, pw := io.Pipe()
	go func() {
		defer pw.Close()
		if err := compressTarGz(dir, pw); err != nil {
			pw.CloseWithError(err)
		}
	}()

	ctx := context.Background()
	var uploaded atomic.Uint64

	progressCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func(ctx context.Context) {
		ticker := time.NewTicker(options.ReportPeriod)
		defer ticker.Stop()

		var last uint64
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if current := uploaded.Load(); current != last {
					log.WithFields(log.Fields{
						"uploaded": datasize.ByteSize(current).HumanReadable(),
						"dir-size": totalSize.HumanReadable(),
					}).Info("compressing and uploading")
					last = current
				}
			}
		}
	}(progressCtx)

	w := gcs.client.Bucket(bucket).Object(fmt.Sprintf("%s.tar.gz", name)).NewWriter(ctx)
	w.Metadata = utils.MergeMaps(bundleMetadata(dir), options.Metadata)
	w.Metadata["manifest"] = ManifestDigest(manifest)

	buf := make([]byte, options.BufferSize.Bytes())
	if _, err := io.CopyBuffer(w, newCountingReader(pr, &uploaded), buf); err != nil {
		_ = w.Close()
		return fmt.Errorf("upload failed: %v", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("upload failed: %v", err)
	}

	log.WithFields(log.Fields{
		"uploaded": datasize.ByteSize(uploaded.Load()).HumanReadable(),
		"files":    len(manifest),
	}).Info("bundle uploaded")

	return gcs.uploadManifest(ctx, bucket, name, manifest)
}

func (gcs *GcsExporter) uploadManifest(ctx context.Context, bucket, name string, manifest map[string]string) error {
	data, err := json.Marshal(manifest)
	if err != nil {
		return err
	}

	w := gcs.client.Bucket(bucket).Object(fmt.Sprintf("%s.manifest.json", name)).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("manifest upload failed: %v", err)
	}
	return w.Close()
}

// Delete removes every object whose name starts with name, covering
// the bundle and its manifest.
func (gcs *GcsExporter) Delete(bucket, name string, opts ...DeleteOption) error {
	options := defaultDeleteOptions()
	for _, opt := range opts {
		opt(options)
	}

	ctx := context.Background()
	var objectNames []string
	it := gcs.client.Bucket(bucket).Objects(ctx, &storage.Query{Prefix: name})

	for {
		objAttrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to list objects: %v", err)
		}
		objectNames = append(objectNames, objAttrs.Name)
	}

	if len(objectNames) == 0 {
		log.Warnf("no objects found with prefix: %s", name)
		return nil
	}

	log.WithFields(log.Fields{
		"bucket":  bucket,
		"name":    name,
		"objects": len(objectNames),
	}).Infof("deleting object(s) with name(prefix): %s", name)
	return gcs.batchDelete(ctx, bucket, objectNames, options.ConcurrentJobs)
}

func (gcs *GcsExporter) batchDelete(ctx context.Context, bucket string, objectNames []string, batchSize int) error {
	var wg sync.WaitGroup
	errChan := make(chan error, len(objectNames))
	semaphore := make(chan struct{}, batchSize)

	for _, objName := range objectNames {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(obj string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			log.WithFields(log.Fields{
				"object": obj,
				"bucket": bucket,
			}).Debug("deleting object")
			if err := gcs.client.Bucket(bucket).Object(obj).Delete(ctx); err != nil {
				errChan <- fmt.Errorf("failed to delete %s: %v", obj, err)
			}
		}(objName)
	}

	wg.Wait()
	close(errChan)

	var errList []error
	for err := range errChan {
		errList = append(errList, err)
	}
	if len(errList) > 0 {
		return fmt.Errorf("some deletions failed: %v", errList)
	}

	return nil
}
