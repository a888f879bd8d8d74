package entity

// Article es una fila del maestro de artículos (feed wbz): parte y su
// plazo de reaprovisionamiento en días hábiles.
type Article struct {
	Part    string  // identificador limpio, tal como se muestra
	Key     PartKey // clave canónica para cruces
	WBZDays int     // Wiederbeschaffungszeit; nunca negativo, 0 si falta
}
