package service

import (
	"errors"

	"github.com/Jbmanllr/rental-catalog/internal/app/model"
	"github.com/Jbmanllr/rental-catalog/internal/app/repository"
	apperrors "github.com/Jbmanllr/rental-catalog/internal/errors"
	"gorm.io/gorm"
)

var (
	ErrTypeNotFound = apperrors.NewNotFound(apperrors.TypeNotFound, "rental type not found")
	ErrTagNotFound  = apperrors.NewNotFound(apperrors.TagNotFound, "rental tag not found")
)

// TypeService wraps the shared rental-type lookup table.
type TypeService interface {
	Retrieve(id uint) (*model.RentalType, error)
	List(search string, limit, offset int) ([]model.RentalType, int64, error)
	UpsertByValue(value string) (*model.RentalType, error)
	FindByDiscountCondition(conditionID uint) ([]model.RentalType, error)
}

type typeService struct {
	typeRepo repository.TypeRepository
}

func NewTypeService(typeRepo repository.TypeRepository) TypeService {
	return &typeService{typeRepo: typeRepo}
}

func (s *typeService) Retrieve(id uint) (*model.RentalType, error) {
	rentalType, err := s.typeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTypeNotFound
		}
		return nil, err
	}
	return rentalType, nil
}

func (s *typeService) List(search string, limit, offset int) ([]model.RentalType, int64, error) {
	return s.typeRepo.List(search, limit, offset)
}

func (s *typeService) UpsertByValue(value string) (*model.RentalType, error) {
	return s.typeRepo.UpsertByValue(value)
}

func (s *typeService) FindByDiscountCondition(conditionID uint) ([]model.RentalType, error) {
	return s.typeRepo.FindByDiscountCondition(conditionID)
}

// TagService wraps the shared rental-tag lookup table.
type TagService interface {
	Retrieve(id uint) (*model.RentalTag, error)
	List(search string, limit, offset int) ([]model.RentalTag, int64, error)
	UpsertByValues(values []string) ([]model.RentalTag, error)
	ListByUsage(limit int) ([]repository.TagUsage, error)
	FindByDiscountCondition(conditionID uint) ([]model.RentalTag, error)
}

type tagService struct {
	tagRepo repository.TagRepository
}

func NewTagService(tagRepo repository.TagRepository) TagService {
	return &tagService{tagRepo: tagRepo}
}

func (s *tagService) Retrieve(id uint) (*model.RentalTag, error) {
	tag, err := s.tagRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return tag, nil
}

func (s *tagService) List(search string, limit, offset int) ([]model.RentalTag, int64, error) {
	return s.tagRepo.List(search, limit, offset)
}

func (s *tagService) UpsertByValues(values []string) ([]model.RentalTag, error) {
	return s.tagRepo.UpsertByValues(values)
}

func (s *tagService) ListByUsage(limit int) ([]repository.TagUsage, error) {
	return s.tagRepo.ListByUsage(limit)
}

func (s *tagService) FindByDiscountCondition(conditionID uint) ([]model.RentalTag, error) {
	return s.tagRepo.FindByDiscountCondition(conditionID)
}

// TaxRateService manages the associative rows linking rentals and rental
// types to externally managed tax rates.
type TaxRateService interface {
	AddToRental(rentalID uint, rateIDs []uint) error
	RemoveFromRental(rentalID uint, rateIDs []uint) error
	ListRatesByRental(rentalID uint) ([]uint, error)
	AddToType(typeID uint, rateIDs []uint) error
	RemoveFromType(typeID uint, rateIDs []uint) error
	ListRatesByType(typeID uint) ([]uint, error)
}

type taxRateService struct {
	taxRateRepo repository.TaxRateRepository
}

func NewTaxRateService(taxRateRepo repository.TaxRateRepository) TaxRateService {
	return &taxRateService{taxRateRepo: taxRateRepo}
}

func (s *taxRateService) AddToRental(rentalID uint, rateIDs []uint) error {
	return s.taxRateRepo.AddToRental(rentalID, rateIDs)
}

func (s *taxRateService) RemoveFromRental(rentalID uint, rateIDs []uint) error {
	return s.taxRateRepo.RemoveFromRental(rentalID, rateIDs)
}

func (s *taxRateService) ListRatesByRental(rentalID uint) ([]uint, error) {
	return s.taxRateRepo.ListRatesByRental(rentalID)
}

func (s *taxRateService) AddToType(typeID uint, rateIDs []uint) error {
	return s.taxRateRepo.AddToType(typeID, rateIDs)
}

func (s *taxRateService) RemoveFromType(typeID uint, rateIDs []uint) error {
	return s.taxRateRepo.RemoveFromType(typeID, rateIDs)
}

func (s *taxRateService) ListRatesByType(typeID uint) ([]uint, error) {
	return s.taxRateRepo.ListRatesByType(typeID)
}
