package repository

// SequenceRepository define el puerto del colaborador de numeración de
// documentos. Next entrega el siguiente consecutivo legible para el tipo de
// documento, dentro de la misma transacción que crea el documento.
type SequenceRepository interface {
	Next(documentType string) (string, error)
}
