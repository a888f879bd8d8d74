package availability

import "time"

// AddBusinessDays avanza n días hábiles (lunes a viernes) a partir de from.
// Cada paso que cae en fin de semana rueda hacia el lunes siguiente.
// n <= 0 devuelve from tal cual: ventana del mismo día.
func AddBusinessDays(from time.Time, n int) time.Time {
	d := from
	for i := 0; i < n; i++ {
		d = d.AddDate(0, 0, 1)
		for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			d = d.AddDate(0, 0, 1)
		}
	}
	return d
}

// DateOnly normaliza un instante a fecha calendario (medianoche UTC).
// Todo el cálculo de ventanas compara fechas en esta forma.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
