package dto

// ProfileRequest formulario de datos propios.
type ProfileRequest struct {
	Name            string `json:"name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ProfileCredentialRequest cuerpo de PUT /profile en el servicio elevado.
type ProfileCredentialRequest struct {
	Email  string `json:"email,omitempty"`
	Secret string `json:"secret,omitempty"`
}

// DeleteStaffRequest cuerpo de POST /deleteStaff en el servicio elevado.
type DeleteStaffRequest struct {
	ID string `json:"id"`
}
