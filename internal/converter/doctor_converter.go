package converter

import (
	"doctor-intro-service/internal/delivery/dto"
	"doctor-intro-service/internal/domain/entity"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:          doctor.ID,
		Name:        doctor.Name,
		Designation: doctor.Designation,
		Degree:      doctor.Degree,
		Mobile:      doctor.Mobile,
		Email:       doctor.Email,
		VideoID:     doctor.VideoID,
		VideoURL:    doctor.VideoURL,
		EmailStatus: doctor.EmailStatus,
		NotifiedAt:  doctor.NotifiedAt,
		CreatedAt:   doctor.CreatedAt,
		UpdatedAt:   doctor.UpdatedAt,
	}
}

// DoctorsToResponses converts a slice of Doctor entities to DoctorResponse DTOs
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}
