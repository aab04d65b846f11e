package confstore

import (
	"os"

	json "github.com/goccy/go-json"

	"zapperd/internal/confstore/interfaces"
	"zapperd/internal/models"
	"zapperd/internal/providers"
)

// FileManager persists the configuration to a single zstd-compressed
// JSON file with atomic tmp+rename writes. There is exactly one writer,
// the running daemon.
type FileManager struct {
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		logger:     logger,
	}
}

func (f *FileManager) SaveToFile(conf *models.Configuration, fileName string) error {
	jsonData, err := json.Marshal(conf)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

// LoadFromFile reads the persisted configuration. A missing file yields
// (nil, false, nil) so the caller can start fresh. The second return
// value reports whether a version 1 shape was migrated and should be
// re-persisted immediately.
func (f *FileManager) LoadFromFile(fileName string) (*models.Configuration, bool, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		// Plain JSON files are accepted too, for hand-edited or
		// externally produced configurations.
		f.logger.Warnf(providers.TypeApp, "Config file is not compressed, trying raw JSON")
		decompressedData = data
	}

	conf, migrated, err := models.DecodeConfiguration(decompressedData)
	if err != nil {
		return nil, false, err
	}
	if migrated {
		f.logger.Warnf(providers.TypeApp, "Migrated configuration from v1 format")
	}
	return conf, migrated, nil
}
