// Package docs содержит OpenAPI-описание HTTP API. Документ отдаётся по
// /swagger/doc.json и рендерится UI на /swagger/.
package docs

// OpenAPISpec — описание публичных маршрутов API.
const OpenAPISpec = `{
  "openapi": "3.0.0",
  "info": {
    "title": "ZonaDepor API",
    "description": "API para organizar partidos deportivos informales: ciclo de vida del partido, inscripciones y emparejamiento de jugadores.",
    "version": "1.0.0"
  },
  "paths": {
    "/auth/signup": {
      "post": {"summary": "Registrar un usuario", "tags": ["auth"], "responses": {"201": {"description": "Usuario creado, incluye token JWT"}}}
    },
    "/auth/login": {
      "post": {"summary": "Iniciar sesión", "tags": ["auth"], "responses": {"200": {"description": "Token JWT y perfil del usuario"}}}
    },
    "/partidos": {
      "get": {
        "summary": "Listar partidos",
        "tags": ["partidos"],
        "parameters": [
          {"name": "sport", "in": "query", "schema": {"type": "string"}, "description": "ID del deporte"},
          {"name": "location", "in": "query", "schema": {"type": "string"}, "description": "Subcadena sobre dirección o nombre de zona"},
          {"name": "level", "in": "query", "schema": {"type": "integer", "minimum": 1, "maximum": 3}, "description": "Nivel mínimo exacto"},
          {"name": "status", "in": "query", "schema": {"type": "string"}, "description": "Estado del partido"}
        ],
        "responses": {"200": {"description": "Lista de partidos"}}
      },
      "post": {"summary": "Crear un partido", "tags": ["partidos"], "responses": {"201": {"description": "Partido creado en NECESITAMOS_JUGADORES"}}}
    },
    "/partidos/{partidoID}": {
      "get": {"summary": "Detalle de un partido", "tags": ["partidos"], "responses": {"200": {"description": "Partido con deporte, zona, organizador y participantes"}}},
      "put": {"summary": "Editar un partido (solo organizador)", "tags": ["partidos"], "responses": {"200": {"description": "Partido actualizado"}}}
    },
    "/partidos/{partidoID}/unirse": {
      "post": {"summary": "Unirse a un partido", "tags": ["partidos"], "responses": {"201": {"description": "Participante creado con lado asignado"}}}
    },
    "/partidos/{partidoID}/abandonar": {
      "delete": {"summary": "Abandonar un partido", "tags": ["partidos"], "responses": {"200": {"description": "Participante eliminado"}}}
    },
    "/partidos/{partidoID}/cambiar-estado": {
      "put": {"summary": "Transición manual de estado", "tags": ["partidos"], "responses": {"200": {"description": "Partido con el nuevo estado"}}}
    },
    "/partidos/{partidoID}/ganador": {
      "put": {"summary": "Registrar el resultado (A, B o EMPATE)", "tags": ["partidos"], "responses": {"200": {"description": "Partido FINALIZADO con equipoGanador"}}}
    },
    "/partidos/usuario/{usuarioID}": {
      "get": {"summary": "Partidos donde el usuario organiza o participa", "tags": ["partidos"], "responses": {"200": {"description": "Lista de partidos"}}}
    },
    "/emparejamiento/ejecutar/{partidoID}": {
      "post": {"summary": "Ejecutar estrategia de emparejamiento", "tags": ["emparejamiento"], "responses": {"200": {"description": "Cantidad de jugadores invitados"}}}
    },
    "/invitaciones/usuario/{usuarioID}": {
      "get": {"summary": "Invitaciones pendientes del usuario", "tags": ["invitaciones"], "responses": {"200": {"description": "Lista de invitaciones con su partido"}}}
    },
    "/invitaciones/{invitacionID}/aceptar": {
      "put": {"summary": "Aceptar una invitación (une al partido)", "tags": ["invitaciones"], "responses": {"200": {"description": "Participante creado"}}}
    },
    "/invitaciones/{invitacionID}/rechazar": {
      "put": {"summary": "Rechazar una invitación", "tags": ["invitaciones"], "responses": {"200": {"description": "Invitación rechazada"}}}
    },
    "/deportes": {
      "get": {"summary": "Listar deportes", "tags": ["referencias"], "responses": {"200": {"description": "Lista de deportes"}}}
    },
    "/zonas": {
      "get": {"summary": "Listar zonas", "tags": ["referencias"], "responses": {"200": {"description": "Lista de zonas"}}}
    },
    "/usuarios/{usuarioID}": {
      "get": {"summary": "Perfil de usuario", "tags": ["usuarios"], "responses": {"200": {"description": "Perfil"}}},
      "put": {"summary": "Editar perfil propio", "tags": ["usuarios"], "responses": {"200": {"description": "Perfil actualizado"}}}
    },
    "/usuarios/{usuarioID}/firebase-token": {
      "put": {"summary": "Registrar push-token", "tags": ["usuarios"], "responses": {"200": {"description": "Token guardado"}}}
    }
  }
}`
