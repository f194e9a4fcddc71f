package service

import (
	"errors"

	"github.com/Jbmanllr/rental-catalog/internal/app/model"
	"github.com/Jbmanllr/rental-catalog/internal/app/repository"
	apperrors "github.com/Jbmanllr/rental-catalog/internal/errors"
	"github.com/Jbmanllr/rental-catalog/pkg/logger"
	"github.com/Jbmanllr/rental-catalog/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrCollectionNotFound     = apperrors.NewNotFound(apperrors.CollectionNotFound, "collection not found")
	ErrCollectionHandleExists = apperrors.NewDuplicate(apperrors.CollectionHandleExists, "a collection with this handle already exists")
)

type CreateCollectionInput struct {
	Title    string
	Handle   string
	Metadata map[string]interface{}
}

type UpdateCollectionInput struct {
	Title    *string
	Handle   *string
	Metadata map[string]interface{}
}

type CollectionService interface {
	Create(input CreateCollectionInput) (*model.RentalCollection, error)
	Update(id uint, input UpdateCollectionInput) (*model.RentalCollection, error)
	Retrieve(id uint) (*model.RentalCollection, error)
	RetrieveByHandle(handle string) (*model.RentalCollection, error)
	List(search string, limit, offset int) ([]model.RentalCollection, int64, error)
	FindByDiscountCondition(conditionID uint) ([]model.RentalCollection, error)
	Delete(id uint) error
}

type collectionService struct {
	collectionRepo repository.CollectionRepository
}

func NewCollectionService(collectionRepo repository.CollectionRepository) CollectionService {
	return &collectionService{collectionRepo: collectionRepo}
}

func (s *collectionService) Create(input CreateCollectionInput) (*model.RentalCollection, error) {
	handle := input.Handle
	if handle == "" {
		handle = util.ToHandle(input.Title)
	}

	exists, err := s.collectionRepo.ExistsWithHandle(handle, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCollectionHandleExists
	}

	collection := &model.RentalCollection{
		Title:    input.Title,
		Handle:   handle,
		Metadata: input.Metadata,
	}
	if err := s.collectionRepo.Create(collection); err != nil {
		return nil, err
	}

	logger.Info("Collection created", map[string]interface{}{
		"collection_id": collection.ID,
		"handle":        collection.Handle,
	})
	return collection, nil
}

func (s *collectionService) Update(id uint, input UpdateCollectionInput) (*model.RentalCollection, error) {
	collection, err := s.Retrieve(id)
	if err != nil {
		return nil, err
	}

	if input.Handle != nil && *input.Handle != collection.Handle {
		exists, err := s.collectionRepo.ExistsWithHandle(*input.Handle, collection.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrCollectionHandleExists
		}
		collection.Handle = *input.Handle
	}
	if input.Title != nil {
		collection.Title = *input.Title
	}
	if input.Metadata != nil {
		if collection.Metadata == nil {
			collection.Metadata = make(map[string]interface{}, len(input.Metadata))
		}
		for k, v := range input.Metadata {
			if v == nil {
				delete(collection.Metadata, k)
			} else {
				collection.Metadata[k] = v
			}
		}
	}

	if err := s.collectionRepo.Save(collection); err != nil {
		return nil, err
	}
	return collection, nil
}

func (s *collectionService) Retrieve(id uint) (*model.RentalCollection, error) {
	collection, err := s.collectionRepo.FindByID(id, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollectionNotFound
		}
		return nil, err
	}
	return collection, nil
}

func (s *collectionService) RetrieveByHandle(handle string) (*model.RentalCollection, error) {
	collection, err := s.collectionRepo.FindByHandle(handle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollectionNotFound
		}
		return nil, err
	}
	return collection, nil
}

func (s *collectionService) List(search string, limit, offset int) ([]model.RentalCollection, int64, error) {
	return s.collectionRepo.List(search, limit, offset)
}

func (s *collectionService) FindByDiscountCondition(conditionID uint) ([]model.RentalCollection, error) {
	return s.collectionRepo.FindByDiscountCondition(conditionID)
}

// Delete is idempotent: deleting a missing collection is a no-op.
func (s *collectionService) Delete(id uint) error {
	_, err := s.collectionRepo.FindByID(id, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return s.collectionRepo.Delete(id)
}
