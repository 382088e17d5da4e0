package storage

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/matst80/slask-facets/pkg/common/jsoncompat"
	"github.com/matst80/slask-facets/pkg/types"
)

const itemsFile = "items.json"
const gzippedItemsFile = "items.json.gz"
const facetsFile = "facets.json"

// LoadItems prefers the gzipped collection and falls back to plain json.
func (d *DiskStorage) LoadItems() ([]types.DataItem, error) {
	items := make([]types.DataItem, 0)
	gzName, _ := d.GetFileName(gzippedItemsFile)
	if f, err := os.Stat(gzName); err == nil && !f.IsDir() {
		log.Printf("Loading gzipped items: %s", gzName)
		if err := d.LoadGzippedJson(&items, gzippedItemsFile); err != nil {
			return nil, fmt.Errorf("load %s: %w", gzippedItemsFile, err)
		}
		return items, nil
	}
	if err := d.LoadJson(&items, itemsFile); err != nil {
		return nil, fmt.Errorf("load %s: %w", itemsFile, err)
	}
	return items, nil
}

func (d *DiskStorage) SaveItems(items []types.DataItem) error {
	return d.SaveGzippedJson(items, gzippedItemsFile)
}

func (d *DiskStorage) LoadCategories() ([]types.CategoryConfig, error) {
	ret := make([]types.CategoryConfig, 0)
	if err := d.LoadJson(&ret, facetsFile); err != nil {
		return nil, fmt.Errorf("load %s: %w", facetsFile, err)
	}
	return ret, nil
}

func (d *DiskStorage) SaveCategories(categories []types.CategoryConfig) error {
	return d.SaveJson(categories, facetsFile)
}

func (p *DiskStorage) SaveGzippedJson(data any, filename string) error {
	fileName, tmpFileName := p.GetFileName(filename)

	file, err := os.Create(tmpFileName)
	if err != nil {
		return err
	}

	zipWriter := gzip.NewWriter(file)
	err = jsoncompat.NewEncoder(zipWriter).Encode(data)
	if closeErr := zipWriter.Close(); err == nil {
		err = closeErr
	}
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpFileName)
		return err
	}

	return os.Rename(tmpFileName, fileName)
}

func (p *DiskStorage) LoadGzippedJson(data any, filename string) error {
	name, _ := p.GetFileName(filename)
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()

	zipReader, err := gzip.NewReader(file)
	if err != nil {
		return err
	}
	defer zipReader.Close()

	err = jsoncompat.NewDecoder(zipReader).Decode(data)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

func (p *DiskStorage) SaveJson(data any, name string) error {
	fileName, tmpFileName := p.GetFileName(name)

	file, err := os.Create(tmpFileName)
	if err != nil {
		return err
	}

	err = jsoncompat.NewEncoder(file).Encode(data)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpFileName)
		return err
	}

	return os.Rename(tmpFileName, fileName)
}

func (p *DiskStorage) LoadJson(data any, filename string) error {
	name, _ := p.GetFileName(filename)
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()

	err = jsoncompat.NewDecoder(file).Decode(data)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}
