package validate

// Request bodies, one per endpoint that accepts one. Bounds mirror the
// platform's published limits.

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,min=3,max=255"`
	Password string `json:"password" validate:"required,min=6,max=255"`
	Role     string `json:"role" validate:"required,oneof=student instructor"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,min=3,max=255"`
	Password string `json:"password" validate:"required,min=6,max=255"`
}

type PasswordUpdateRequest struct {
	CurrentPassword    string `json:"currentPassword" validate:"required,min=6"`
	NewPassword        string `json:"newPassword" validate:"required,min=6"`
	ConfirmNewPassword string `json:"confirmNewPassword" validate:"required,eqfield=NewPassword"`
}

type CourseRequest struct {
	Title    string  `json:"title" validate:"required,min=6,max=100"`
	Category string  `json:"category" validate:"required,oneof='Web Development' 'Mobile Development' 'Data Science' 'AI' 'Game Development' 'Cloud Computing' 'Cybersecurity' 'DevOps' 'Blockchain' 'UI/UX Design' 'Digital Marketing' 'Other'"`
	Price    float64 `json:"price" validate:"required,gte=1,lte=9999"`
}
