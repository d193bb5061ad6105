package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// AnonymizeSubjectID aplica un hash de una vía al identificador del
// usuario. El mismo sujeto produce siempre el mismo valor, lo que
// permite correlacionar su historial sin exponer su identidad en
// registros ni almacenamiento (Ley 21.459).
func AnonymizeSubjectID(subjectID string) string {
	sum := sha256.Sum256([]byte(subjectID))
	return hex.EncodeToString(sum[:])[:16]
}
