package entity

import "time"

// SoftDelete marca de borrado lógico embebida en las entidades restaurables.
// DeletedAt nil = registro activo.
type SoftDelete struct {
	DeletedAt *time.Time
}

// IsDeleted informa si el registro está en la papelera.
func (s SoftDelete) IsDeleted() bool {
	return s.DeletedAt != nil
}

// MarkDeleted envía el registro a la papelera. Devuelve false si ya estaba borrado.
func (s *SoftDelete) MarkDeleted(at time.Time) bool {
	if s.DeletedAt != nil {
		return false
	}
	t := at
	s.DeletedAt = &t
	return true
}

// Restore saca el registro de la papelera. Devuelve false si no estaba borrado.
func (s *SoftDelete) Restore() bool {
	if s.DeletedAt == nil {
		return false
	}
	s.DeletedAt = nil
	return true
}
