// Package repository define las interfaces de repositorio de dominio.
//
// Estas interfaces representan contratos de negocio, independientes del
// almacenamiento subyacente. La implementación concreta (PostgreSQL) vive en
// internal/store/pg.
//
// Convenciones:
//   - Context siempre es el primer parámetro.
//   - Los repositorios son de solo lectura salvo donde el endpoint lo exige
//     (completar step, recálculo); la atomicidad de esas escrituras la
//     garantiza la base de datos, no este código.
//   - Errores de dominio están en errors.go.
package repository
